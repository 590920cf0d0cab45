package models

const (
	EnqueuedJob   = "enqueued"
	InProgressJob = "in-progress"
	SuccessfulJob = "successful"
	DeadJob       = "dead"
)

type JobStatus struct {
	BaseModel
	Name string `json:"name"`
	Jobs []Job  `json:"jobs,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}
