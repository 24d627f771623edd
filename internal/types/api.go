package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// GenerateOutlineRequest is the body of an outline generation request.
type GenerateOutlineRequest struct {
	Content    string `json:"content" validate:"required_without=SourceURL,omitempty,min=10"`
	Model      string `json:"model"`
	SlideCount *int   `json:"slide_count,omitempty" validate:"omitempty,min=5,max=30"`
	SourceURL  string `json:"source_url,omitempty" validate:"omitempty,url"`
	Markdown   bool   `json:"markdown,omitempty"`
}

// Validate validates the GenerateOutlineRequest using the validator.
func (r *GenerateOutlineRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// GeneratePPTRequest is the body of a deck generation request.
type GeneratePPTRequest struct {
	Outline    Outline `json:"outline"`
	Theme      string  `json:"theme"`
	TemplateID string  `json:"template_id,omitempty"`
	// ExportPDF also converts the saved deck to PDF.
	ExportPDF bool `json:"export_pdf,omitempty"`
}

// Validate validates the embedded outline.
func (r *GeneratePPTRequest) Validate() error {
	return r.Outline.Validate()
}

// TaskStatus is the lifecycle state of a background generation task.
type TaskStatus string

// Task statuses.
const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// Task is the bookkeeping record of one generation run.
type Task struct {
	ID          string     `json:"task_id"`
	Status      TaskStatus `json:"status"`
	Progress    int        `json:"progress"`
	Message     string     `json:"message,omitempty"`
	Title       string     `json:"title,omitempty"`
	Theme       string     `json:"theme,omitempty"`
	TemplateID  string     `json:"template_id,omitempty"`
	FilePath    string     `json:"-"`
	PreviewPath string     `json:"-"`
	PDFPath     string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskResponse is the API view of a task.
type TaskResponse struct {
	TaskID      string     `json:"task_id"`
	Status      TaskStatus `json:"status"`
	Progress    int        `json:"progress"`
	Message     string     `json:"message,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
	PreviewURL  string     `json:"preview_url,omitempty"`
	PDFURL      string     `json:"pdf_url,omitempty"`
}

// ModelInfo describes one outline model of the catalogue.
type ModelInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Provider  string `json:"provider"`
	Private   bool   `json:"private,omitempty"`
	Available bool   `json:"available"`
}

// TemplateInfo is returned after a template upload.
type TemplateInfo struct {
	ID       string    `json:"template_id"`
	Filename string    `json:"filename"`
	Path     string    `json:"-"`
	Created  time.Time `json:"created_at"`
}

// String implements fmt.Stringer for log lines.
func (t *Task) String() string {
	return fmt.Sprintf("task %s [%s %d%%]", t.ID, t.Status, t.Progress)
}
