package httpHandler

import (
	"net/http"
	"time"

	"lifeops-server/entities"
	"lifeops-server/schedule"
	"lifeops-server/usecases"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type TaskHandler struct {
	useCase *usecases.TaskUseCase
	loc     *time.Location
}

// NewTaskHandler builds the task endpoints. Dates in requests are calendar
// dates in loc.
func NewTaskHandler(useCase *usecases.TaskUseCase, loc *time.Location) *TaskHandler {
	return &TaskHandler{
		useCase: useCase,
		loc:     loc,
	}
}

type CreateTaskRequest struct {
	Title         string  `json:"title" binding:"required,max=200"`
	Category      string  `json:"category" binding:"required,category"`
	ScheduleType  string  `json:"scheduleType" binding:"required,scheduletype"`
	ScheduleValue *int    `json:"scheduleValue" binding:"omitempty,min=1,max=120"`
	MonthDay      string  `json:"monthDay" binding:"omitempty,monthday"`
	DueDate       string  `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	Notes         *string `json:"notes" binding:"omitempty,max=1000"`
	Shared        bool    `json:"shared"`
}

type UpdateTaskRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=200"`
	Category *string `json:"category" binding:"omitempty,category"`
	Notes    *string `json:"notes" binding:"omitempty,max=1000"`
	DueDate  *string `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	Shared   *bool   `json:"shared"`
}

func (h *TaskHandler) parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, h.loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTasks handles GET /tasks
func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.useCase.List(c.Request.Context(), CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// CreateTask handles POST /tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	due, err := h.parseDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dueDate must be a date formatted as YYYY-MM-DD"})
		return
	}

	task, err := h.useCase.Create(c.Request.Context(), CurrentUser(c), usecases.TaskInput{
		Title:         req.Title,
		Category:      entities.Category(req.Category),
		ScheduleType:  schedule.Type(req.ScheduleType),
		ScheduleValue: req.ScheduleValue,
		MonthDay:      req.MonthDay,
		DueDate:       due,
		Notes:         req.Notes,
		Shared:        req.Shared,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// GetTask handles GET /tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.useCase.Get(c.Request.Context(), CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"task": task})
}

// UpdateTask handles PATCH /tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	in := usecases.TaskUpdate{Title: req.Title, Notes: req.Notes, Shared: req.Shared}
	if req.Category != nil {
		cat := entities.Category(*req.Category)
		in.Category = &cat
	}
	if req.DueDate != nil {
		due, err := h.parseDate(*req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dueDate must be a date formatted as YYYY-MM-DD"})
			return
		}
		in.DueDate = due
	}

	task, err := h.useCase.Update(c.Request.Context(), CurrentUser(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"task": task})
}

// DeleteTask handles DELETE /tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.useCase.Delete(c.Request.Context(), CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Task deleted successfully"})
}

// CompleteTask handles POST /tasks/:id/complete
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	task, err := h.useCase.Complete(c.Request.Context(), CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"task": task})
}

// UncompleteTask handles POST /tasks/:id/uncomplete
func (h *TaskHandler) UncompleteTask(c *gin.Context) {
	task, err := h.useCase.Uncomplete(c.Request.Context(), CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"task": task})
}
