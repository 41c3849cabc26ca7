package entities

import (
	"time"

	"lifeops-server/schedule"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryHome      Category = "HOME"
	CategoryVehicle   Category = "VEHICLE"
	CategoryHealth    Category = "HEALTH"
	CategoryFinance   Category = "FINANCE"
	CategoryDocuments Category = "DOCUMENTS"
	CategoryOther     Category = "OTHER"
)

var Categories = []Category{CategoryHome, CategoryVehicle, CategoryHealth, CategoryFinance, CategoryDocuments, CategoryOther}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Task is a recurring maintenance item. NextDueDate and LastCompletedDate are
// always written noon-normalized.
type Task struct {
	ID                string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title             string        `gorm:"type:varchar(200);not null" json:"title"`
	Category          Category      `gorm:"type:varchar(16);not null" json:"category"`
	ScheduleType      schedule.Type `gorm:"type:varchar(16);not null" json:"scheduleType"`
	ScheduleValue     *int          `json:"scheduleValue"`
	NextDueDate       time.Time     `gorm:"index;not null" json:"nextDueDate"`
	LastCompletedDate *time.Time    `json:"lastCompletedDate"`
	CompletionCount   int           `gorm:"not null;default:0" json:"completionCount"`
	Notes             *string       `gorm:"type:varchar(1000)" json:"notes"`
	UserID            string        `gorm:"type:varchar(36);index;not null" json:"userId"`
	HouseholdID       *string       `gorm:"type:varchar(36);index" json:"householdId"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// MonthDay renders a YEARLY task's schedule value as MM-DD.
func (t *Task) MonthDay() string {
	if t.ScheduleType != schedule.Yearly || t.ScheduleValue == nil {
		return ""
	}
	m, d, err := schedule.MonthDayFromValue(*t.ScheduleValue)
	if err != nil {
		return ""
	}
	return schedule.EncodeMonthDay(m, d)
}
