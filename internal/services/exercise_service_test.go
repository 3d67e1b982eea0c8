package services

import (
	"errors"
	"testing"

	"gymlog/internal/authz"
	"gymlog/internal/models"
	"gymlog/internal/repositories"

	"github.com/stretchr/testify/assert"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	routingKeys []string
	fail        bool
}

func (p *recordingPublisher) Publish(routingKey string, body []byte) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	if p.fail {
		return errors.New("broker unavailable")
	}
	return nil
}

func editor(id string) *models.User {
	return &models.User{ID: id, Username: "editor-" + id, Role: models.RoleEditor}
}

func viewer(id string) *models.User {
	return &models.User{ID: id, Username: "viewer-" + id, Role: models.RoleViewer}
}

func admin(id string) *models.User {
	return &models.User{ID: id, Username: "admin-" + id, Role: models.RoleAdmin}
}

func newExerciseService() (*ExerciseService, *repositories.MockExerciseRepository, *recordingPublisher) {
	repo := repositories.NewMockExerciseRepository()
	publisher := &recordingPublisher{}
	return NewExerciseService(repo, authz.NewGuard(), publisher), repo, publisher
}

func TestExerciseService_CreatePrivate(t *testing.T) {
	service, repo, publisher := newExerciseService()
	actor := editor("user-1")

	exercise := &models.Exercise{Name: "Жим гантелей", MuscleGroup: "Плечи", Difficulty: models.DifficultyBeginner}
	err := service.Create(actor, exercise)

	assert.NoError(t, err)
	assert.NotEmpty(t, exercise.ID)
	if assert.NotNil(t, exercise.OwnerID) {
		assert.Equal(t, "user-1", *exercise.OwnerID)
	}
	assert.Equal(t, []string{EventExerciseCreated}, publisher.routingKeys)

	stored, err := repo.GetByID(exercise.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Жим гантелей", stored.Name)
}

func TestExerciseService_CreatePublicIsOwnerless(t *testing.T) {
	service, _, _ := newExerciseService()

	exercise := &models.Exercise{Name: "Отжимания", MuscleGroup: "Грудь", Difficulty: models.DifficultyBeginner, IsPublic: true}
	err := service.Create(editor("user-1"), exercise)

	assert.NoError(t, err)
	assert.Nil(t, exercise.OwnerID)
}

func TestExerciseService_CreateDeniedForViewer(t *testing.T) {
	service, _, publisher := newExerciseService()

	exercise := &models.Exercise{Name: "Планка", MuscleGroup: "Пресс", Difficulty: models.DifficultyBeginner}
	err := service.Create(viewer("user-2"), exercise)

	var denied *authz.DeniedError
	assert.ErrorAs(t, err, &denied)
	assert.Equal(t, authz.DenyInsufficientRole, denied.Reason)
	assert.Empty(t, publisher.routingKeys)
}

func TestExerciseService_UpdateForeignDenied(t *testing.T) {
	service, repo, _ := newExerciseService()
	ownerID := "user-1"
	assert.NoError(t, repo.Create(&models.Exercise{ID: "ex-1", Name: "Тяга блока", MuscleGroup: "Спина", OwnerID: &ownerID}))

	err := service.Update(editor("user-2"), &models.Exercise{ID: "ex-1", Name: "Тяга блока (узкий хват)", MuscleGroup: "Спина"})

	var denied *authz.DeniedError
	assert.ErrorAs(t, err, &denied)
	assert.Equal(t, authz.DenyNotOwner, denied.Reason)
}

func TestExerciseService_AdminUpdatesPublic(t *testing.T) {
	service, repo, publisher := newExerciseService()
	assert.NoError(t, repo.Create(&models.Exercise{ID: "ex-1", Name: "Приседания", MuscleGroup: "Ноги", IsPublic: true}))

	updated := &models.Exercise{ID: "ex-1", Name: "Приседания со штангой", MuscleGroup: "Ноги", IsPublic: true}
	err := service.Update(admin("root"), updated)

	assert.NoError(t, err)
	assert.Nil(t, updated.OwnerID)
	assert.Equal(t, []string{EventExerciseUpdated}, publisher.routingKeys)
}

func TestExerciseService_UpdatePrivatizingAssignsOwner(t *testing.T) {
	service, repo, _ := newExerciseService()
	assert.NoError(t, repo.Create(&models.Exercise{ID: "ex-1", Name: "Выпады", MuscleGroup: "Ноги", IsPublic: true}))

	updated := &models.Exercise{ID: "ex-1", Name: "Выпады", MuscleGroup: "Ноги", IsPublic: false}
	err := service.Update(admin("root"), updated)

	assert.NoError(t, err)
	if assert.NotNil(t, updated.OwnerID) {
		assert.Equal(t, "root", *updated.OwnerID)
	}
}

func TestExerciseService_DeleteInUse(t *testing.T) {
	service, repo, publisher := newExerciseService()
	ownerID := "user-1"
	assert.NoError(t, repo.Create(&models.Exercise{ID: "ex-1", Name: "Становая тяга", MuscleGroup: "Спина", OwnerID: &ownerID}))
	repo.SetEntryCount("ex-1", 3)

	err := service.Delete(editor("user-1"), "ex-1")

	assert.ErrorIs(t, err, ErrExerciseInUse)
	assert.Empty(t, publisher.routingKeys)

	// The exercise survives the refused delete.
	_, err = repo.GetByID("ex-1")
	assert.NoError(t, err)
}

func TestExerciseService_DeleteOwn(t *testing.T) {
	service, repo, publisher := newExerciseService()
	ownerID := "user-1"
	assert.NoError(t, repo.Create(&models.Exercise{ID: "ex-1", Name: "Скручивания", MuscleGroup: "Пресс", OwnerID: &ownerID}))

	err := service.Delete(editor("user-1"), "ex-1")

	assert.NoError(t, err)
	assert.Equal(t, []string{EventExerciseDeleted}, publisher.routingKeys)

	_, err = repo.GetByID("ex-1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestExerciseService_GetNotFound(t *testing.T) {
	service, _, _ := newExerciseService()

	_, err := service.Get(editor("user-1"), "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestExerciseService_GetForeignPrivateDenied(t *testing.T) {
	service, repo, _ := newExerciseService()
	ownerID := "user-1"
	assert.NoError(t, repo.Create(&models.Exercise{ID: "ex-1", Name: "Личное упражнение", MuscleGroup: "Спина", OwnerID: &ownerID}))

	_, err := service.Get(viewer("user-2"), "ex-1")

	var denied *authz.DeniedError
	assert.ErrorAs(t, err, &denied)
}

func TestExerciseService_PublishFailureDoesNotFailWrite(t *testing.T) {
	repo := repositories.NewMockExerciseRepository()
	publisher := &recordingPublisher{fail: true}
	service := NewExerciseService(repo, authz.NewGuard(), publisher)

	exercise := &models.Exercise{Name: "Берпи", MuscleGroup: "Всё тело", Difficulty: models.DifficultyAdvanced}
	err := service.Create(editor("user-1"), exercise)

	assert.NoError(t, err)
	assert.Equal(t, []string{EventExerciseCreated}, publisher.routingKeys)
}
