package store

import (
	"github.com/nishikaramnani04/PIH2026-SHEield/server/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var ErrDuplicateJob = errors.New("job with the given name already exists in queue")

// Job-queue operations used by the background worker pool. These ride the
// same single-writer queue as everything else.

// CreateUniqueJob enqueues a job unless one with the same name is already
// enqueued or in-progress.
func (s *Store) CreateUniqueJob(name string, handler string, args string) error {
	_, err := s.perform(func(tx *gorm.DB) (interface{}, error) {
		queuedStatuses := []models.JobStatus{}
		err := tx.Where("name IN ?", []string{models.EnqueuedJob, models.InProgressJob}).
			Find(&queuedStatuses).Error
		if err != nil {
			return nil, err
		}

		statusIDs := []uint{}
		var enqueuedStatus models.JobStatus
		for _, jobStatus := range queuedStatuses {
			statusIDs = append(statusIDs, jobStatus.ID)
			if jobStatus.Name == models.EnqueuedJob {
				enqueuedStatus = jobStatus
			}
		}

		res := tx.Where("name = ? AND job_status_id IN ?", name, statusIDs).First(&models.Job{})
		if res.Error != nil && !errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			return nil, ErrDuplicateJob
		}

		return nil, tx.Create(&models.Job{
			Name:        name,
			Handler:     handler,
			Args:        args,
			JobStatusID: enqueuedStatus.ID,
		}).Error
	})

	return err
}

// NextJob returns the most recent unclaimed job with the given status.
func (s *Store) NextJob(status string) (*models.Job, error) {
	value, err := s.perform(func(tx *gorm.DB) (interface{}, error) {
		job := models.Job{}
		err := tx.Joins(
			"INNER JOIN job_statuses ON job_statuses.id = jobs.job_status_id AND job_statuses.name = ? AND claimed = ?",
			status, false).Last(&job).Error
		if err != nil {
			return nil, err
		}
		return &job, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*models.Job), nil
}

// ClaimJob marks a job as in-progress, reporting whether this caller won the
// claim.
func (s *Store) ClaimJob(jobID uint) (bool, error) {
	value, err := s.perform(func(tx *gorm.DB) (interface{}, error) {
		inProgressStatus := models.JobStatus{}
		err := tx.Where(&models.JobStatus{Name: models.InProgressJob}).Find(&inProgressStatus).Error
		if err != nil {
			return false, err
		}

		res := tx.Model(&models.Job{}).Where("id = ? AND claimed = ?", jobID, false).
			Updates(map[string]interface{}{
				"claimed":       true,
				"job_status_id": inProgressStatus.ID,
			})
		if res.Error != nil {
			return false, res.Error
		}

		return res.RowsAffected > 0, nil
	})
	if err != nil {
		return false, err
	}

	return value.(bool), nil
}

func (s *Store) UpdateJob(jobID uint, data map[string]interface{}) error {
	_, err := s.perform(func(tx *gorm.DB) (interface{}, error) {
		return nil, tx.Model(&models.Job{}).Where("id = ?", jobID).Updates(data).Error
	})

	return err
}

func (s *Store) FindJobStatus(name string) (*models.JobStatus, error) {
	value, err := s.perform(func(tx *gorm.DB) (interface{}, error) {
		jobStatus := models.JobStatus{}
		if err := tx.First(&jobStatus, "name = ?", name).Error; err != nil {
			return nil, err
		}
		return &jobStatus, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*models.JobStatus), nil
}

// RequeueClaimedJobs releases jobs a previous run claimed but never finished,
// so they get picked up again after a restart.
func (s *Store) RequeueClaimedJobs() error {
	_, err := s.perform(func(tx *gorm.DB) (interface{}, error) {
		enqueuedStatus := models.JobStatus{}
		if err := tx.First(&enqueuedStatus, "name = ?", models.EnqueuedJob).Error; err != nil {
			return nil, err
		}

		return nil, tx.Model(&models.Job{}).Where("claimed = ?", true).
			Updates(map[string]interface{}{
				"claimed":       false,
				"job_status_id": enqueuedStatus.ID,
			}).Error
	})

	return err
}
