package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/alinbpe/motel-management-system/config"
	"github.com/alinbpe/motel-management-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.Role) models.User {
	t.Helper()
	user := models.User{Username: username, Password: "x", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCabin(t *testing.T, db *gorm.DB, name string, status models.CabinStatus) models.Cabin {
	t.Helper()
	cabin := models.Cabin{Name: name, Status: status, Icon: "Mountain"}
	require.NoError(t, db.Create(&cabin).Error)
	return cabin
}

func allItemsChecked() map[string]bool {
	items := make(map[string]bool, len(models.CleaningItems))
	for _, item := range models.CleaningItems {
		items[item] = true
	}
	return items
}

func latestLog(t *testing.T, db *gorm.DB) models.LogEntry {
	t.Helper()
	var entry models.LogEntry
	require.NoError(t, db.Order("id DESC").First(&entry).Error)
	return entry
}

func TestCheckInSetsOccupiedWithStay(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	reception := seedUser(t, db, "reza", models.RoleReception)
	cabin := seedCabin(t, db, "Shoka", models.StatusEmptyClean)

	require.NoError(t, svc.CheckIn(cabin.ID, 2, 3, reception))

	got, err := svc.Store().GetCabin(cabin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOccupied, got.Status)
	require.NotNil(t, got.CurrentStayID)

	var stay models.Stay
	require.NoError(t, db.First(&stay, *got.CurrentStayID).Error)
	assert.Equal(t, cabin.ID, stay.CabinID)
	assert.Equal(t, 2, stay.GuestCount)
	assert.Equal(t, 3, stay.Nights)
	assert.Equal(t, reception.ID, stay.CreatedBy)
	assert.True(t, stay.Active)
	assert.Equal(t,
		stay.CheckinDate.AddDate(0, 0, 3).Truncate(time.Second).Unix(),
		stay.CheckoutDate.Truncate(time.Second).Unix())
}

func TestCheckInForbiddenForHousekeeping(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	housekeeping := seedUser(t, db, "mina", models.RoleHousekeeping)
	cabin := seedCabin(t, db, "Zik", models.StatusEmptyClean)

	err := svc.CheckIn(cabin.ID, 1, 1, housekeeping)
	assert.ErrorIs(t, err, ErrForbidden)

	var logCount int64
	db.Model(&models.LogEntry{}).Count(&logCount)
	assert.Zero(t, logCount, "rejected operation must not log")
}

func TestCheckInUnknownCabin(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)

	assert.ErrorIs(t, svc.CheckIn(999, 1, 1, admin), ErrNotFound)
}

func TestTechnicalIssueResolutionFlow(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	tech := seedUser(t, db, "farid", models.RoleTechnical)
	cabin := seedCabin(t, db, "Maral", models.StatusEmptyClean)

	require.NoError(t, svc.ReportIssue(cabin.ID, models.IssueTechnical, "heater broken", tech))

	got, err := svc.Store().GetCabin(cabin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusIssueTech, got.Status)
	require.NotNil(t, got.ActiveIssueID)
	issueID := *got.ActiveIssueID

	// Technical fix confirmed: resolve, then move the cabin to the cleaning
	// queue. Two separate operations, two log entries.
	require.NoError(t, svc.ResolveIssue(issueID, tech))
	require.NoError(t, svc.ChangeCabinStatus(cabin.ID, models.StatusEmptyDirty, tech, "fix confirmed"))

	issue, err := svc.Store().GetIssue(issueID)
	require.NoError(t, err)
	assert.Equal(t, models.IssueResolved, issue.Status)
	require.NotNil(t, issue.ResolvedAt)

	got, err = svc.Store().GetCabin(cabin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEmptyDirty, got.Status)
	assert.Nil(t, got.ActiveIssueID)

	var logCount int64
	db.Model(&models.LogEntry{}).Count(&logCount)
	assert.EqualValues(t, 3, logCount)
}

func TestResolveIssueRejectsSecondResolution(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	tech := seedUser(t, db, "farid", models.RoleTechnical)
	cabin := seedCabin(t, db, "Shemshad", models.StatusEmptyClean)

	require.NoError(t, svc.ReportIssue(cabin.ID, models.IssueTechnical, "leaky pipe", tech))
	got, err := svc.Store().GetCabin(cabin.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ActiveIssueID)
	issueID := *got.ActiveIssueID

	require.NoError(t, svc.ResolveIssue(issueID, tech))
	first, err := svc.Store().GetIssue(issueID)
	require.NoError(t, err)
	require.NotNil(t, first.ResolvedAt)

	assert.ErrorIs(t, svc.ResolveIssue(issueID, tech), ErrAlreadyResolved)

	// The original resolution timestamp survives and no extra log appears.
	second, err := svc.Store().GetIssue(issueID)
	require.NoError(t, err)
	require.NotNil(t, second.ResolvedAt)
	assert.Equal(t, first.ResolvedAt.Unix(), second.ResolvedAt.Unix())

	var logCount int64
	db.Model(&models.LogEntry{}).Where("action = ?", models.ActionResolveIssue).Count(&logCount)
	assert.EqualValues(t, 1, logCount)
}

func TestResolveIssueForbiddenForReception(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	reception := seedUser(t, db, "reza", models.RoleReception)
	cabin := seedCabin(t, db, "Papoli", models.StatusEmptyClean)

	require.NoError(t, svc.ReportIssue(cabin.ID, models.IssueCleaning, "stained rug", reception))
	got, err := svc.Store().GetCabin(cabin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusIssueClean, got.Status)
	require.NotNil(t, got.ActiveIssueID)

	assert.ErrorIs(t, svc.ResolveIssue(*got.ActiveIssueID, reception), ErrForbidden)
}

func TestReportIssueUnknownTypeFallsBackToMaintenance(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	cabin := seedCabin(t, db, "Oopach", models.StatusEmptyClean)

	require.NoError(t, svc.ReportIssue(cabin.ID, models.IssueType("PLUMBING"), "leak", admin))

	got, err := svc.Store().GetCabin(cabin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderMaintenance, got.Status)
}

func TestReportIssueOnOccupiedCabinKeepsStay(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	reception := seedUser(t, db, "reza", models.RoleReception)
	cabin := seedCabin(t, db, "Michka", models.StatusEmptyClean)

	require.NoError(t, svc.CheckIn(cabin.ID, 2, 2, reception))
	before, err := svc.Store().GetCabin(cabin.ID)
	require.NoError(t, err)
	require.NotNil(t, before.CurrentStayID)

	require.NoError(t, svc.ReportIssue(cabin.ID, models.IssueTechnical, "no hot water", reception))

	after, err := svc.Store().GetCabin(cabin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusIssueTech, after.Status)
	require.NotNil(t, after.ActiveIssueID)
	require.NotNil(t, after.CurrentStayID)
	assert.Equal(t, *before.CurrentStayID, *after.CurrentStayID)
}

func TestCheckoutDeactivatesStay(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	reception := seedUser(t, db, "reza", models.RoleReception)
	cabin := seedCabin(t, db, "Sorkhdar", models.StatusEmptyClean)

	require.NoError(t, svc.CheckIn(cabin.ID, 4, 5, reception))
	require.NoError(t, svc.ChangeCabinStatus(cabin.ID, models.StatusEmptyDirty, reception, "checkout"))

	got, err := svc.Store().GetCabin(cabin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEmptyDirty, got.Status)
	assert.Nil(t, got.CurrentStayID)

	var stay models.Stay
	require.NoError(t, db.Where("cabin_id = ?", cabin.ID).First(&stay).Error)
	assert.False(t, stay.Active)
}

func TestChangeStatusForbiddenTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	reception := seedUser(t, db, "reza", models.RoleReception)
	housekeeping := seedUser(t, db, "mina", models.RoleHousekeeping)
	cabin := seedCabin(t, db, "Namazin", models.StatusEmptyClean)

	// Reception may only record checkouts.
	assert.ErrorIs(t,
		svc.ChangeCabinStatus(cabin.ID, models.StatusUnderMaintenance, reception, ""),
		ErrForbidden)
	// Housekeeping may not drive status at all.
	assert.ErrorIs(t,
		svc.ChangeCabinStatus(cabin.ID, models.StatusEmptyDirty, housekeeping, ""),
		ErrForbidden)
}

func TestAdminOverrideBypassesPreconditions(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	cabin := seedCabin(t, db, "Shemshad", models.StatusOccupied)

	require.NoError(t, svc.ChangeCabinStatus(cabin.ID, models.StatusUnderMaintenance, admin, "pipe burst"))

	got, err := svc.Store().GetCabin(cabin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderMaintenance, got.Status)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	cabin := seedCabin(t, db, "Shoka", models.StatusEmptyClean)

	assert.ErrorIs(t,
		svc.ChangeCabinStatus(cabin.ID, models.CabinStatus("HAUNTED"), admin, ""),
		ErrInvalidInput)
}

func TestSubmitChecklistRequiresAllItems(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	housekeeping := seedUser(t, db, "mina", models.RoleHousekeeping)
	cabin := seedCabin(t, db, "Zik", models.StatusEmptyDirty)

	items := allItemsChecked()
	items[models.CleaningItems[0]] = false
	assert.ErrorIs(t, svc.SubmitCleaningChecklist(cabin.ID, items, housekeeping), ErrChecklistIncomplete)
	assert.ErrorIs(t, svc.SubmitCleaningChecklist(cabin.ID, nil, housekeeping), ErrChecklistIncomplete)
}

func TestApproveCleaningIsIdempotentInEffect(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	housekeeping := seedUser(t, db, "mina", models.RoleHousekeeping)
	reception := seedUser(t, db, "reza", models.RoleReception)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	cabin := seedCabin(t, db, "Papoli", models.StatusEmptyDirty)

	require.NoError(t, svc.SubmitCleaningChecklist(cabin.ID, allItemsChecked(), housekeeping))

	got, err := svc.Store().GetCabin(cabin.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PendingCleaningID)
	checklistID := *got.PendingCleaningID

	require.NoError(t, svc.ApproveCleaningChecklist(checklistID, reception))

	first, err := svc.Store().GetChecklist(checklistID)
	require.NoError(t, err)
	assert.Equal(t, models.ChecklistApproved, first.Status)
	require.NotNil(t, first.ApprovedBy)
	assert.Equal(t, reception.ID, *first.ApprovedBy)
	require.NotNil(t, first.ApprovedAt)

	// Second approval, even by another operator, changes nothing.
	assert.ErrorIs(t, svc.ApproveCleaningChecklist(checklistID, admin), ErrAlreadyApproved)

	second, err := svc.Store().GetChecklist(checklistID)
	require.NoError(t, err)
	assert.Equal(t, *first.ApprovedBy, *second.ApprovedBy)
	assert.True(t, first.ApprovedAt.Equal(*second.ApprovedAt))
}

func TestSubmitChecklistForbiddenForTechnical(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	tech := seedUser(t, db, "farid", models.RoleTechnical)
	cabin := seedCabin(t, db, "Maral", models.StatusEmptyDirty)

	assert.ErrorIs(t,
		svc.SubmitCleaningChecklist(cabin.ID, allItemsChecked(), tech),
		ErrForbidden)
}

// Full lifecycle: EMPTY_CLEAN -> check-in -> checkout -> checklist submitted
// -> approved -> EMPTY_CLEAN again, with the derived references appearing and
// disappearing along the way.
func TestCabinLifecycleScenario(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	reception := seedUser(t, db, "reza", models.RoleReception)
	housekeeping := seedUser(t, db, "mina", models.RoleHousekeeping)
	cabin := seedCabin(t, db, "Shoka", models.StatusEmptyClean)
	store := svc.Store()

	require.NoError(t, svc.CheckIn(cabin.ID, 2, 3, reception))
	got, err := store.GetCabin(cabin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOccupied, got.Status)
	require.NotNil(t, got.CurrentStayID)
	var stay models.Stay
	require.NoError(t, db.First(&stay, *got.CurrentStayID).Error)
	assert.Equal(t, 3, stay.Nights)

	require.NoError(t, svc.ChangeCabinStatus(cabin.ID, models.StatusEmptyDirty, reception, "checkout"))
	got, err = store.GetCabin(cabin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEmptyDirty, got.Status)
	assert.Nil(t, got.CurrentStayID)

	require.NoError(t, svc.SubmitCleaningChecklist(cabin.ID, allItemsChecked(), housekeeping))
	got, err = store.GetCabin(cabin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEmptyDirty, got.Status, "submission alone does not change status")
	require.NotNil(t, got.PendingCleaningID)

	require.NoError(t, svc.ApproveCleaningChecklist(*got.PendingCleaningID, reception))
	got, err = store.GetCabin(cabin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEmptyClean, got.Status)
	assert.Nil(t, got.PendingCleaningID)
}

func TestEveryMutationWritesOneLogAndNotification(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	cabin := seedCabin(t, db, "Michka", models.StatusEmptyClean)

	steps := []struct {
		action string
		run    func() error
	}{
		{models.ActionCheckIn, func() error { return svc.CheckIn(cabin.ID, 1, 2, admin) }},
		{models.ActionChangeStatus, func() error {
			return svc.ChangeCabinStatus(cabin.ID, models.StatusEmptyDirty, admin, "")
		}},
		{models.ActionSubmitCleaning, func() error {
			return svc.SubmitCleaningChecklist(cabin.ID, allItemsChecked(), admin)
		}},
	}

	for i, step := range steps {
		require.NoError(t, step.run())

		var logCount, notifCount int64
		db.Model(&models.LogEntry{}).Count(&logCount)
		db.Model(&models.Notification{}).Count(&notifCount)
		assert.EqualValues(t, i+1, logCount)
		assert.EqualValues(t, i+1, notifCount)

		entry := latestLog(t, db)
		assert.Equal(t, step.action, entry.Action)
		assert.Equal(t, admin.ID, entry.UserID)
		assert.Contains(t, entry.Details, cabin.Name)
	}
}

func TestUserManagement(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	reception := seedUser(t, db, "reza", models.RoleReception)

	// Only admin manages users.
	_, err := svc.AddUser("mina", "secret", models.RoleHousekeeping, reception)
	assert.ErrorIs(t, err, ErrForbidden)

	user, err := svc.AddUser("mina", "secret", models.RoleHousekeeping, admin)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", user.Password, "password must be stored hashed")

	entry := latestLog(t, db)
	assert.Equal(t, models.ActionAddUser, entry.Action)
	assert.Contains(t, entry.Details, "mina")

	newRole := models.RoleTechnical
	require.NoError(t, svc.UpdateUser(user.ID, UserUpdate{Role: &newRole}, admin))
	updated, err := svc.Store().GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTechnical, updated.Role)

	badRole := models.Role("OWNER")
	assert.ErrorIs(t, svc.UpdateUser(user.ID, UserUpdate{Role: &badRole}, admin), ErrInvalidInput)

	require.NoError(t, svc.DeleteUser(user.ID, admin))
	_, err = svc.Store().GetUser(user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	entry = latestLog(t, db)
	assert.Equal(t, models.ActionDeleteUser, entry.Action)
	assert.Contains(t, entry.Details, "mina")

	assert.ErrorIs(t, svc.DeleteUser(999, admin), ErrNotFound)
}
