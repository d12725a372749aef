package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/alinbpe/motel-management-system/models"
	"github.com/alinbpe/motel-management-system/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WorkflowService is the state machine around cabin status. Every mutation
// follows the same protocol: check the role policy, load the referenced
// entities, persist the change, and append exactly one audit log entry plus
// one notification, all inside a single transaction.
type WorkflowService struct {
	db    *gorm.DB
	store *EntityStore
}

func NewWorkflowService(db *gorm.DB) *WorkflowService {
	return &WorkflowService{db: db, store: NewEntityStore(db)}
}

// Store exposes the read side for handlers.
func (s *WorkflowService) Store() *EntityStore {
	return s.store
}

// isDuplicateKey sniffs driver-specific unique violation messages; works for
// both MySQL and the sqlite test driver.
func isDuplicateKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

func (s *WorkflowService) logAction(tx *gorm.DB, operator models.User, action, details string) error {
	entry := models.LogEntry{
		UserID:  operator.ID,
		Action:  action,
		Details: details,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}

	notification := models.Notification{
		Message: fmt.Sprintf("%s: %s - %s", operator.Username, action, details),
	}
	if err := tx.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to append notification: %w", err)
	}
	return nil
}

// ChangeCabinStatus sets the cabin to newStatus. On checkout
// (OCCUPIED -> EMPTY_DIRTY) the cabin's active stays are ended in the same
// transaction. Back-references are never written here; the store derives them
// on read.
func (s *WorkflowService) ChangeCabinStatus(cabinID uint, newStatus models.CabinStatus, operator models.User, details string) error {
	if !newStatus.Valid() {
		return fmt.Errorf("%w: unknown cabin status %q", ErrInvalidInput, newStatus)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		st := s.store.WithTx(tx)

		cabin, err := st.getCabinRow(cabinID)
		if err != nil {
			return err
		}
		if !CanChangeStatus(operator.Role, cabin.Status, newStatus) {
			return fmt.Errorf("%w: %s may not move %s from %s to %s",
				ErrForbidden, operator.Role, cabin.Name, cabin.Status, newStatus)
		}

		if cabin.Status == models.StatusOccupied && newStatus == models.StatusEmptyDirty {
			if err := st.DeactivateStays(cabin.ID); err != nil {
				return err
			}
		}

		if err := st.UpdateCabinStatus(&cabin, newStatus); err != nil {
			return err
		}

		message := fmt.Sprintf("%s changed to %s", cabin.Name, newStatus)
		if strings.TrimSpace(details) != "" {
			message += ". " + strings.TrimSpace(details)
		}
		return s.logAction(tx, operator, models.ActionChangeStatus, message)
	})
}

// CheckIn creates a stay and marks the cabin OCCUPIED. The cabin being
// EMPTY_CLEAN is the caller's responsibility; the engine does not gate on the
// current status so an admin can always seat a guest.
func (s *WorkflowService) CheckIn(cabinID uint, guestCount, nights int, operator models.User) error {
	if guestCount < 1 || nights < 1 {
		return fmt.Errorf("%w: guest count and nights must be positive", ErrInvalidInput)
	}
	if !Allowed(operator.Role, PermittedRoles(models.ActionCheckIn)...) {
		return fmt.Errorf("%w: %s may not check guests in", ErrForbidden, operator.Role)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		st := s.store.WithTx(tx)

		cabin, err := st.getCabinRow(cabinID)
		if err != nil {
			return err
		}

		now := time.Now()
		stay := models.Stay{
			CabinID:      cabin.ID,
			GuestCount:   guestCount,
			Nights:       nights,
			CheckinDate:  now,
			CheckoutDate: now.AddDate(0, 0, nights),
			CreatedBy:    operator.ID,
			Active:       true,
		}
		if err := tx.Create(&stay).Error; err != nil {
			return fmt.Errorf("failed to create stay: %w", err)
		}

		if err := st.UpdateCabinStatus(&cabin, models.StatusOccupied); err != nil {
			return err
		}

		message := fmt.Sprintf("Checked in at %s for %d nights", cabin.Name, nights)
		return s.logAction(tx, operator, models.ActionCheckIn, message)
	})
}

// cabinStatusForIssue maps an issue type to the status the cabin lands in.
// Unmapped types fall back to UNDER_MAINTENANCE.
func cabinStatusForIssue(issueType models.IssueType) models.CabinStatus {
	switch issueType {
	case models.IssueTechnical:
		return models.StatusIssueTech
	case models.IssueCleaning:
		return models.StatusIssueClean
	}
	return models.StatusUnderMaintenance
}

// ReportIssue records a problem and blocks the cabin. Any authenticated role
// may report.
func (s *WorkflowService) ReportIssue(cabinID uint, issueType models.IssueType, description string, operator models.User) error {
	if !Allowed(operator.Role, PermittedRoles(models.ActionReportIssue)...) {
		return fmt.Errorf("%w: %s may not report issues", ErrForbidden, operator.Role)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		st := s.store.WithTx(tx)

		cabin, err := st.getCabinRow(cabinID)
		if err != nil {
			return err
		}

		issue := models.Issue{
			CabinID:     cabin.ID,
			Type:        issueType,
			Description: description,
			Status:      models.IssueOpen,
			CreatedBy:   operator.ID,
		}
		if err := tx.Create(&issue).Error; err != nil {
			return fmt.Errorf("failed to create issue: %w", err)
		}

		if err := st.UpdateCabinStatus(&cabin, cabinStatusForIssue(issueType)); err != nil {
			return err
		}

		message := fmt.Sprintf("%s issue at %s: %s", issueType, cabin.Name, description)
		return s.logAction(tx, operator, models.ActionReportIssue, message)
	})
}

// ResolveIssue marks the issue RESOLVED. An issue resolves exactly once;
// resolving again returns ErrAlreadyResolved. It does not touch the cabin
// status; the caller confirms the fix with a separate ChangeCabinStatus,
// which is why a technical resolution produces two log entries.
func (s *WorkflowService) ResolveIssue(issueID uint, operator models.User) error {
	if !Allowed(operator.Role, PermittedRoles(models.ActionResolveIssue)...) {
		return fmt.Errorf("%w: %s may not resolve issues", ErrForbidden, operator.Role)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		st := s.store.WithTx(tx)

		issue, err := st.GetIssue(issueID)
		if err != nil {
			return err
		}
		if issue.Status == models.IssueResolved {
			return fmt.Errorf("%w: issue %d", ErrAlreadyResolved, issue.ID)
		}
		cabin, err := st.getCabinRow(issue.CabinID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.Issue{}).Where("id = ?", issue.ID).
			Updates(map[string]interface{}{
				"status":      models.IssueResolved,
				"resolved_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to resolve issue: %w", err)
		}

		message := fmt.Sprintf("%s issue at %s resolved", issue.Type, cabin.Name)
		return s.logAction(tx, operator, models.ActionResolveIssue, message)
	})
}

// SubmitCleaningChecklist records a completed housekeeping pass. Every item
// must be checked; the cabin keeps its status until reception approves and
// the pending reference shows up on the next read.
func (s *WorkflowService) SubmitCleaningChecklist(cabinID uint, items map[string]bool, operator models.User) error {
	if !Allowed(operator.Role, PermittedRoles(models.ActionSubmitCleaning)...) {
		return fmt.Errorf("%w: %s may not submit cleaning checklists", ErrForbidden, operator.Role)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: no items submitted", ErrChecklistIncomplete)
	}
	for item, done := range items {
		if !done {
			return fmt.Errorf("%w: %q", ErrChecklistIncomplete, item)
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		st := s.store.WithTx(tx)

		cabin, err := st.getCabinRow(cabinID)
		if err != nil {
			return err
		}

		itemsJSON := make(datatypes.JSONMap, len(items))
		for item, done := range items {
			itemsJSON[item] = done
		}
		checklist := models.CleaningChecklist{
			CabinID:  cabin.ID,
			Items:    itemsJSON,
			FilledBy: operator.ID,
			Status:   models.ChecklistSubmitted,
		}
		if err := tx.Create(&checklist).Error; err != nil {
			return fmt.Errorf("failed to create checklist: %w", err)
		}

		message := fmt.Sprintf("Cleaning checklist submitted for %s", cabin.Name)
		return s.logAction(tx, operator, models.ActionSubmitCleaning, message)
	})
}

// ApproveCleaningChecklist confirms a submitted checklist and releases the
// cabin as EMPTY_CLEAN. Approving twice returns ErrAlreadyApproved and leaves
// the original approver and timestamp untouched.
func (s *WorkflowService) ApproveCleaningChecklist(checklistID uint, operator models.User) error {
	if !Allowed(operator.Role, PermittedRoles(models.ActionApproveCleaning)...) {
		return fmt.Errorf("%w: %s may not approve cleaning checklists", ErrForbidden, operator.Role)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		st := s.store.WithTx(tx)

		checklist, err := st.GetChecklist(checklistID)
		if err != nil {
			return err
		}
		if checklist.Status == models.ChecklistApproved {
			return ErrAlreadyApproved
		}
		cabin, err := st.getCabinRow(checklist.CabinID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.CleaningChecklist{}).Where("id = ?", checklist.ID).
			Updates(map[string]interface{}{
				"status":      models.ChecklistApproved,
				"approved_by": operator.ID,
				"approved_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to approve checklist: %w", err)
		}

		if err := st.UpdateCabinStatus(&cabin, models.StatusEmptyClean); err != nil {
			return err
		}

		message := fmt.Sprintf("Cleaning of %s approved", cabin.Name)
		return s.logAction(tx, operator, models.ActionApproveCleaning, message)
	})
}

// AddUser creates an account. Admin only; the password is stored as a bcrypt
// hash.
func (s *WorkflowService) AddUser(username, password string, role models.Role, operator models.User) (models.User, error) {
	if !Allowed(operator.Role) {
		return models.User{}, fmt.Errorf("%w: %s may not manage users", ErrForbidden, operator.Role)
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: username and password required", ErrInvalidInput)
	}
	if !role.Valid() {
		return models.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username: username,
		Password: string(hash),
		Role:     role,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("%w: username %q already exists", ErrConflict, user.Username)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		message := fmt.Sprintf("User %s (%s) created", user.Username, user.Role)
		return s.logAction(tx, operator, models.ActionAddUser, message)
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UserUpdate carries the mutable user fields; nil means keep the current
// value.
type UserUpdate struct {
	Username *string
	Password *string
	Role     *models.Role
}

func (s *WorkflowService) UpdateUser(id uint, update UserUpdate, operator models.User) error {
	if !Allowed(operator.Role) {
		return fmt.Errorf("%w: %s may not manage users", ErrForbidden, operator.Role)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		st := s.store.WithTx(tx)

		user, err := st.GetUser(id)
		if err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if update.Username != nil && strings.TrimSpace(*update.Username) != "" {
			changes["username"] = strings.TrimSpace(*update.Username)
		}
		if update.Password != nil && *update.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			changes["password"] = string(hash)
		}
		if update.Role != nil {
			if !update.Role.Valid() {
				return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, *update.Role)
			}
			changes["role"] = *update.Role
		}
		if len(changes) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(changes).Error; err != nil {
				if isDuplicateKey(err) {
					return fmt.Errorf("%w: username already exists", ErrConflict)
				}
				return fmt.Errorf("failed to update user: %w", err)
			}
		}

		message := fmt.Sprintf("User %s updated", user.Username)
		return s.logAction(tx, operator, models.ActionUpdateUser, message)
	})
}

func (s *WorkflowService) DeleteUser(id uint, operator models.User) error {
	if !Allowed(operator.Role) {
		return fmt.Errorf("%w: %s may not manage users", ErrForbidden, operator.Role)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		st := s.store.WithTx(tx)

		user, err := st.GetUser(id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, user.ID).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		message := fmt.Sprintf("User %s deleted", user.Username)
		return s.logAction(tx, operator, models.ActionDeleteUser, message)
	})
}

// RecordLogin stamps last_login after a successful credential check.
func (s *WorkflowService) RecordLogin(userID uint) {
	now := time.Now()
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("last_login", now).Error; err != nil {
		utils.ErrorLogger.Errorf("failed to record login for user %d: %v", userID, err)
	}
}
