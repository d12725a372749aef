package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/alinbpe/motel-management-system/models"

	"gorm.io/gorm"
)

// EntityStore is the data access adapter. It owns the read-side derivation of
// cabin back-references (active stay, open issue, pending checklist) so the
// workflow service never writes those fields; stored and derived truth cannot
// diverge.
type EntityStore struct {
	DB *gorm.DB
}

func NewEntityStore(db *gorm.DB) *EntityStore {
	return &EntityStore{DB: db}
}

// WithTx returns a store bound to an open transaction.
func (s *EntityStore) WithTx(tx *gorm.DB) *EntityStore {
	return &EntityStore{DB: tx}
}

var requiredTables = []string{
	"users", "cabins", "issues", "stays", "logs", "notifications", "cleaning_checklists",
}

// CheckSchema verifies all required tables are reachable. A missing table is
// the one persistence error surfaced to callers as a setup problem rather
// than logged and swallowed.
func (s *EntityStore) CheckSchema() error {
	m := s.DB.Migrator()
	for _, table := range requiredTables {
		if !m.HasTable(table) {
			return fmt.Errorf("%w: missing table %q", ErrSchemaNotProvisioned, table)
		}
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Snapshot is the full set of collections a screen renders from. Clients
// re-fetch it after every mutation instead of patching local state.
type Snapshot struct {
	Cabins        []models.Cabin        `json:"cabins"`
	Users         []models.User         `json:"users"`
	Stays         []models.Stay         `json:"stays"`
	Issues        []models.Issue        `json:"issues"`
	Logs          []models.LogEntry     `json:"logs"`
	Notifications []models.Notification `json:"notifications"`
}

func (s *EntityStore) LoadSnapshot() (Snapshot, error) {
	if err := s.CheckSchema(); err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	var err error
	if snap.Cabins, err = s.GetCabins(); err != nil {
		return Snapshot{}, err
	}
	if snap.Users, err = s.GetUsers(); err != nil {
		return Snapshot{}, err
	}
	if snap.Stays, err = s.GetStays(); err != nil {
		return Snapshot{}, err
	}
	if snap.Issues, err = s.GetIssues(); err != nil {
		return Snapshot{}, err
	}
	if snap.Logs, err = s.GetLogs(); err != nil {
		return Snapshot{}, err
	}
	if snap.Notifications, err = s.GetNotifications(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *EntityStore) GetUsers() ([]models.User, error) {
	var users []models.User
	err := s.DB.Order("username").Find(&users).Error
	return users, err
}

func (s *EntityStore) GetUser(id uint) (models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *EntityStore) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// UsernameIndex maps user ids to usernames for attribution in API responses.
// Historical references to deleted users render as "Unknown" at that boundary.
func (s *EntityStore) UsernameIndex() (map[uint]string, error) {
	var users []models.User
	if err := s.DB.Select("id", "username").Find(&users).Error; err != nil {
		return nil, err
	}
	index := make(map[uint]string, len(users))
	for _, u := range users {
		index[u.ID] = u.Username
	}
	return index, nil
}

// GetCabins loads all cabins ordered by name and derives the per-cabin
// back-references: the active stay still inside its date range, the issue not
// yet resolved, and the submitted-but-unapproved checklist. At most one of
// each is expected per cabin; the most recent wins if convention was broken.
func (s *EntityStore) GetCabins() ([]models.Cabin, error) {
	var cabins []models.Cabin
	if err := s.DB.Order("name").Find(&cabins).Error; err != nil {
		return nil, err
	}
	if len(cabins) == 0 {
		return cabins, nil
	}

	today := startOfDay(time.Now())

	var stays []models.Stay
	if err := s.DB.Select("id", "cabin_id").
		Where("active = ? AND checkout_date >= ?", true, today).
		Order("id DESC").Find(&stays).Error; err != nil {
		return nil, err
	}
	var issues []models.Issue
	if err := s.DB.Select("id", "cabin_id").
		Where("status <> ?", models.IssueResolved).
		Order("id DESC").Find(&issues).Error; err != nil {
		return nil, err
	}
	var cleanings []models.CleaningChecklist
	if err := s.DB.Select("id", "cabin_id").
		Where("status = ?", models.ChecklistSubmitted).
		Order("id DESC").Find(&cleanings).Error; err != nil {
		return nil, err
	}

	stayByCabin := make(map[uint]uint, len(stays))
	for _, st := range stays {
		if _, ok := stayByCabin[st.CabinID]; !ok {
			stayByCabin[st.CabinID] = st.ID
		}
	}
	issueByCabin := make(map[uint]uint, len(issues))
	for _, is := range issues {
		if _, ok := issueByCabin[is.CabinID]; !ok {
			issueByCabin[is.CabinID] = is.ID
		}
	}
	cleaningByCabin := make(map[uint]uint, len(cleanings))
	for _, cl := range cleanings {
		if _, ok := cleaningByCabin[cl.CabinID]; !ok {
			cleaningByCabin[cl.CabinID] = cl.ID
		}
	}

	for i := range cabins {
		if id, ok := stayByCabin[cabins[i].ID]; ok {
			stayID := id
			cabins[i].CurrentStayID = &stayID
		}
		if id, ok := issueByCabin[cabins[i].ID]; ok {
			issueID := id
			cabins[i].ActiveIssueID = &issueID
		}
		if id, ok := cleaningByCabin[cabins[i].ID]; ok {
			cleaningID := id
			cabins[i].PendingCleaningID = &cleaningID
		}
	}
	return cabins, nil
}

// GetCabin loads a single cabin with derived references.
func (s *EntityStore) GetCabin(id uint) (models.Cabin, error) {
	cabin, err := s.getCabinRow(id)
	if err != nil {
		return models.Cabin{}, err
	}

	today := startOfDay(time.Now())

	var stay models.Stay
	err = s.DB.Select("id").
		Where("cabin_id = ? AND active = ? AND checkout_date >= ?", id, true, today).
		Order("id DESC").First(&stay).Error
	if err == nil {
		cabin.CurrentStayID = &stay.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Cabin{}, err
	}

	var issue models.Issue
	err = s.DB.Select("id").
		Where("cabin_id = ? AND status <> ?", id, models.IssueResolved).
		Order("id DESC").First(&issue).Error
	if err == nil {
		cabin.ActiveIssueID = &issue.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Cabin{}, err
	}

	var cleaning models.CleaningChecklist
	err = s.DB.Select("id").
		Where("cabin_id = ? AND status = ?", id, models.ChecklistSubmitted).
		Order("id DESC").First(&cleaning).Error
	if err == nil {
		cabin.PendingCleaningID = &cleaning.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Cabin{}, err
	}

	return cabin, nil
}

// getCabinRow loads the stored cabin row without derivation.
func (s *EntityStore) getCabinRow(id uint) (models.Cabin, error) {
	var cabin models.Cabin
	if err := s.DB.First(&cabin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Cabin{}, ErrNotFound
		}
		return models.Cabin{}, err
	}
	return cabin, nil
}

// UpdateCabinStatus persists a status change with a compare-and-set on the
// version column. A concurrent writer that got there first leaves
// RowsAffected at zero and the write is rejected with ErrConflict.
func (s *EntityStore) UpdateCabinStatus(cabin *models.Cabin, status models.CabinStatus) error {
	res := s.DB.Model(&models.Cabin{}).
		Where("id = ? AND version = ?", cabin.ID, cabin.Version).
		Updates(map[string]interface{}{
			"status":  status,
			"version": cabin.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: cabin %q version %d", ErrConflict, cabin.Name, cabin.Version)
	}
	cabin.Status = status
	cabin.Version++
	return nil
}

func (s *EntityStore) GetStays() ([]models.Stay, error) {
	var stays []models.Stay
	err := s.DB.Order("created_at DESC").Find(&stays).Error
	return stays, err
}

// DeactivateStays ends every active stay for a cabin. Called on checkout;
// the active flag is the source of truth for occupancy.
func (s *EntityStore) DeactivateStays(cabinID uint) error {
	return s.DB.Model(&models.Stay{}).
		Where("cabin_id = ? AND active = ?", cabinID, true).
		Update("active", false).Error
}

// CleanupStays deactivates stays whose checkout date has passed, reconciling
// the flag for checkouts nobody recorded. Returns the number of rows touched.
func (s *EntityStore) CleanupStays() (int64, error) {
	res := s.DB.Model(&models.Stay{}).
		Where("active = ? AND checkout_date < ?", true, startOfDay(time.Now())).
		Update("active", false)
	return res.RowsAffected, res.Error
}

func (s *EntityStore) GetIssues() ([]models.Issue, error) {
	var issues []models.Issue
	err := s.DB.Order("created_at DESC").Find(&issues).Error
	return issues, err
}

func (s *EntityStore) GetIssue(id uint) (models.Issue, error) {
	var issue models.Issue
	if err := s.DB.First(&issue, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Issue{}, ErrNotFound
		}
		return models.Issue{}, err
	}
	return issue, nil
}

func (s *EntityStore) GetChecklist(id uint) (models.CleaningChecklist, error) {
	var checklist models.CleaningChecklist
	if err := s.DB.First(&checklist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CleaningChecklist{}, ErrNotFound
		}
		return models.CleaningChecklist{}, err
	}
	return checklist, nil
}

func (s *EntityStore) GetLogs() ([]models.LogEntry, error) {
	var logs []models.LogEntry
	err := s.DB.Order("created_at DESC").Limit(100).Find(&logs).Error
	return logs, err
}

func (s *EntityStore) GetNotifications() ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Order("created_at DESC").Limit(50).Find(&notifications).Error
	return notifications, err
}

// MarkNotificationRead flips the read flag. Presentation-layer concern; the
// workflow service only ever appends notifications.
func (s *EntityStore) MarkNotificationRead(id uint) error {
	res := s.DB.Model(&models.Notification{}).Where("id = ?", id).Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
