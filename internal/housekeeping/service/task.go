package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	housekeepingerrors "hms/internal/housekeeping/errors"
	"hms/internal/housekeeping/repository"
	"hms/pkg/config"
	apperrors "hms/pkg/errors"
	"hms/pkg/model"
)

// InventoryGateway is the slice of the inventory service housekeeping
// needs to verify beds and flip their status.
type InventoryGateway interface {
	GetBed(ctx context.Context, roomNumber int, bedNumber string) (*model.Bed, error)
	SetBedStatus(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus) error
}

// OccupancyChecker answers whether a confirmed stay covers an instant.
// The bookings repository satisfies it; housekeeping must not release a
// bed out from under a guest who is still checked in.
type OccupancyChecker interface {
	HasActiveConfirmed(ctx context.Context, roomNumber int, bedNumber string, at time.Time) (bool, error)
}

type TaskService interface {
	AssignTasks(ctx context.Context, staffID string, requests []model.TaskRequest) ([]*model.HousekeepingTask, error)
	UpdateTaskStatus(ctx context.Context, id string, status model.TaskStatus, completionDate *time.Time) error
	ListTasksByStaff(ctx context.Context, staffID string, status model.TaskStatus) ([]*model.HousekeepingTask, error)
	Stats(ctx context.Context) (*model.TaskStats, error)
	QueueCleaning(ctx context.Context, roomNumber int, bedNumber string) error
}

type taskService struct {
	repo      repository.TaskRepository
	inventory InventoryGateway
	occupancy OccupancyChecker
	validate  *validator.Validate
	cfg       *config.Config

	now func() time.Time
}

func NewTaskService(repo repository.TaskRepository, inventory InventoryGateway, occupancy OccupancyChecker, cfg *config.Config) TaskService {
	return &taskService{
		repo:      repo,
		inventory: inventory,
		occupancy: occupancy,
		validate:  validator.New(),
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// AssignTasks creates a batch of tasks for one staff member. Every bed is
// verified against inventory first; one unknown bed rejects the whole
// batch so a shift plan is never half-created. Assigning a maintenance
// task takes the bed out of service immediately.
func (s *taskService) AssignTasks(ctx context.Context, staffID string, requests []model.TaskRequest) ([]*model.HousekeepingTask, error) {
	if staffID == "" {
		return nil, apperrors.InvalidInput("Staff ID cannot be empty")
	}
	if len(requests) == 0 {
		return nil, apperrors.InvalidInput("at least one task is required")
	}

	for i := range requests {
		if err := s.validate.Struct(&requests[i]); err != nil {
			return nil, apperrors.Validation("invalid task request", map[string]any{"error": err.Error()})
		}
		if _, err := s.inventory.GetBed(ctx, requests[i].RoomNumber, requests[i].BedNumber); err != nil {
			return nil, err
		}
	}

	tasks := make([]*model.HousekeepingTask, 0, len(requests))
	for _, req := range requests {
		tasks = append(tasks, &model.HousekeepingTask{
			StaffID:    staffID,
			RoomNumber: req.RoomNumber,
			BedNumber:  req.BedNumber,
			Task:       req.Task,
			Shift:      req.Shift,
			TaskStatus: model.TaskPending,
		})
	}

	if err := s.repo.CreateMany(ctx, tasks); err != nil {
		return nil, apperrors.Internal("Failed to create housekeeping tasks", err)
	}

	for _, task := range tasks {
		if task.Task != model.TaskMaintenance {
			continue
		}
		if err := s.inventory.SetBedStatus(ctx, task.RoomNumber, task.BedNumber, model.BedMaintenance); err != nil {
			s.cfg.Log.Warn("Failed to mark bed under maintenance",
				"room_number", task.RoomNumber,
				"bed_number", task.BedNumber,
				"error", err,
			)
		}
	}

	s.cfg.Log.Info("Housekeeping tasks assigned", "staff_id", staffID, "count", len(tasks))
	return tasks, nil
}

// UpdateTaskStatus advances a task through its lifecycle. Completing a
// cleaning task returns the bed to service: occupied if a confirmed stay
// covers now, available otherwise, clearing any maintenance flag along
// the way. The completion date defaults to now when the caller omits it.
func (s *taskService) UpdateTaskStatus(ctx context.Context, id string, status model.TaskStatus, completionDate *time.Time) error {
	if id == "" {
		return apperrors.InvalidInput("Task ID cannot be empty")
	}
	if !status.Valid() {
		return apperrors.InvalidInput(fmt.Sprintf("unknown task status: %s", status))
	}

	task, err := s.findTask(ctx, id)
	if err != nil {
		return err
	}

	if task.TaskStatus == status {
		return nil
	}
	if !task.TaskStatus.CanTransitionTo(status) {
		return apperrors.InvalidTransition(string(task.TaskStatus), string(status))
	}

	if status != model.TaskCompleted {
		completionDate = nil
	} else if completionDate == nil {
		now := s.now()
		completionDate = &now
	}

	if err := s.repo.UpdateStatus(ctx, id, status, completionDate); err != nil {
		if errors.Is(err, housekeepingerrors.ErrTaskNotFound) {
			return apperrors.NotFoundWithID("Task", id)
		}
		return apperrors.Internal("Failed to update task status", err)
	}

	if status == model.TaskCompleted {
		s.settleBedAfterTask(ctx, task)
	}

	s.cfg.Log.Info("Task status updated", "id", id, "task_status", status)
	return nil
}

func (s *taskService) settleBedAfterTask(ctx context.Context, task *model.HousekeepingTask) {
	if task.Task != model.TaskCleaning {
		return
	}

	bed, err := s.inventory.GetBed(ctx, task.RoomNumber, task.BedNumber)
	if err != nil {
		s.cfg.Log.Warn("Failed to load bed after task completion", "task_id", task.ID, "error", err)
		return
	}

	active, err := s.occupancy.HasActiveConfirmed(ctx, task.RoomNumber, task.BedNumber, s.now())
	if err != nil {
		s.cfg.Log.Warn("Failed to check occupancy after task completion", "task_id", task.ID, "error", err)
		return
	}

	target := model.BedAvailable
	if active {
		target = model.BedOccupied
	}
	if bed.Status == target {
		return
	}

	if err := s.inventory.SetBedStatus(ctx, task.RoomNumber, task.BedNumber, target); err != nil {
		s.cfg.Log.Warn("Failed to update bed status after task completion",
			"room_number", task.RoomNumber,
			"bed_number", task.BedNumber,
			"error", err,
		)
	}
}

func (s *taskService) ListTasksByStaff(ctx context.Context, staffID string, status model.TaskStatus) ([]*model.HousekeepingTask, error) {
	if staffID == "" {
		return nil, apperrors.InvalidInput("Staff ID cannot be empty")
	}
	if status != "" && !status.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown task status: %s", status))
	}

	tasks, err := s.repo.FindByStaff(ctx, staffID, status)
	if err != nil {
		return nil, apperrors.Internal("Failed to list tasks", err)
	}
	return tasks, nil
}

func (s *taskService) Stats(ctx context.Context) (*model.TaskStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to compute task stats", err)
	}
	return stats, nil
}

// QueueCleaning records an unassigned cleaning task for a bed, typically
// in response to a cancellation or checkout event. The shift is derived
// from the current time; a supervisor assigns the task later.
func (s *taskService) QueueCleaning(ctx context.Context, roomNumber int, bedNumber string) error {
	if _, err := s.inventory.GetBed(ctx, roomNumber, bedNumber); err != nil {
		return err
	}

	task := &model.HousekeepingTask{
		RoomNumber: roomNumber,
		BedNumber:  bedNumber,
		Task:       model.TaskCleaning,
		Shift:      model.ShiftForTime(s.now()),
		TaskStatus: model.TaskPending,
	}

	if err := s.repo.CreateMany(ctx, []*model.HousekeepingTask{task}); err != nil {
		return apperrors.Internal("Failed to queue cleaning task", err)
	}

	s.cfg.Log.Info("Cleaning task queued", "room_number", roomNumber, "bed_number", bedNumber, "shift", task.Shift)
	return nil
}

func (s *taskService) findTask(ctx context.Context, id string) (*model.HousekeepingTask, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, housekeepingerrors.ErrTaskNotFound) {
			return nil, apperrors.NotFoundWithID("Task", id)
		}
		if errors.Is(err, housekeepingerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid task ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve task", err)
	}
	return task, nil
}
