package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edusales/leads-api/internal/dto"
	"github.com/edusales/leads-api/internal/models"
	appErrors "github.com/edusales/leads-api/pkg/errors"
)

// The repo mocks append to a shared event log so tests can assert the
// cascade write order: lead, then per term career before term, then per
// registration course before registration.
type cascadeLog struct {
	events []string
}

func (l *cascadeLog) add(format string, args ...interface{}) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

type leadRepoMock struct {
	log      *cascadeLog
	nextID   int64
	leads    map[int64]models.Lead
	listResp []models.Lead
	total    int
	createErr error
}

func (m *leadRepoMock) Create(ctx context.Context, exec sqlx.ExtContext, lead *models.Lead) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	lead.ID = m.nextID
	lead.CreatedAt = time.Now()
	if m.leads == nil {
		m.leads = make(map[int64]models.Lead)
	}
	m.leads[lead.ID] = *lead
	if m.log != nil {
		m.log.add("lead:%d", lead.ID)
	}
	return nil
}

func (m *leadRepoMock) List(ctx context.Context, filter models.LeadFilter) ([]models.Lead, int, error) {
	return m.listResp, m.total, nil
}

func (m *leadRepoMock) FindByID(ctx context.Context, id int64) (*models.Lead, error) {
	if lead, ok := m.leads[id]; ok {
		return &lead, nil
	}
	return nil, sql.ErrNoRows
}

type careerResolverMock struct {
	log    *cascadeLog
	byName map[string]int64
	nextID int64
	err    error
}

func (m *careerResolverMock) ResolveByName(ctx context.Context, exec sqlx.ExtContext, name string) (*models.Career, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.byName == nil {
		m.byName = make(map[string]int64)
	}
	id, ok := m.byName[name]
	if !ok {
		m.nextID++
		id = m.nextID
		m.byName[name] = id
	}
	if m.log != nil {
		m.log.add("career:%s:%d", name, id)
	}
	return &models.Career{ID: id, Name: name}, nil
}

type courseResolverMock struct {
	log    *cascadeLog
	byName map[string]int64
	nextID int64
}

func (m *courseResolverMock) ResolveByName(ctx context.Context, exec sqlx.ExtContext, name string, careerID int64) (*models.Course, error) {
	if m.byName == nil {
		m.byName = make(map[string]int64)
	}
	id, ok := m.byName[name]
	if !ok {
		m.nextID++
		id = m.nextID
		m.byName[name] = id
	}
	if m.log != nil {
		m.log.add("course:%s:%d", name, id)
	}
	return &models.Course{ID: id, Name: name, CareerID: careerID}, nil
}

type termRepoMock struct {
	log      *cascadeLog
	created  []models.EnrollmentTerm
	listResp []models.EnrollmentTermDetail
	createErr error
}

func (m *termRepoMock) Create(ctx context.Context, exec sqlx.ExtContext, term *models.EnrollmentTerm) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, *term)
	if m.log != nil {
		m.log.add("term:%d:%d:%d", term.Year, term.CareerID, term.LeadID)
	}
	return nil
}

func (m *termRepoMock) ListByLead(ctx context.Context, leadID int64) ([]models.EnrollmentTermDetail, error) {
	return m.listResp, nil
}

type registrationRepoMock struct {
	log      *cascadeLog
	created  []models.Registration
	listResp map[int][]models.RegistrationDetail
}

func (m *registrationRepoMock) Create(ctx context.Context, exec sqlx.ExtContext, reg *models.Registration) error {
	m.created = append(m.created, *reg)
	if m.log != nil {
		m.log.add("registration:%d:%d", reg.CourseID, reg.TimesTaken)
	}
	return nil
}

func (m *registrationRepoMock) ListByTerm(ctx context.Context, year int, careerID, leadID int64) ([]models.RegistrationDetail, error) {
	return m.listResp[year], nil
}

func newTestService(t *testing.T, leads *leadRepoMock, careers *careerResolverMock, courses *courseResolverMock, terms *termRepoMock, regs *registrationRepoMock) (*LeadService, sqlmock.Sqlmock, func()) {
	t.Helper()
	rawDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	db := sqlx.NewDb(rawDB, "sqlmock")
	svc := NewLeadService(db, leads, careers, courses, terms, regs, nil, nil, 0, validator.New(), zap.NewNop())
	return svc, mock, func() { rawDB.Close() }
}

func sampleRequest() dto.CreateLeadRequest {
	university := "University A"
	return dto.CreateLeadRequest{
		Name:    "Lionel",
		Surname: "Messi",
		Enrollments: []dto.EnrollmentTermInput{
			{
				Career:     "Engineering",
				Year:       2024,
				University: &university,
				Registrations: []dto.RegistrationInput{
					{Course: "Mathematics", TimesTaken: 1},
					{Course: "Science", TimesTaken: 2},
				},
			},
		},
	}
}

func TestLeadServiceCreateCascade(t *testing.T) {
	log := &cascadeLog{}
	leads := &leadRepoMock{log: log}
	careers := &careerResolverMock{log: log}
	courses := &courseResolverMock{log: log}
	terms := &termRepoMock{log: log}
	regs := &registrationRepoMock{log: log}
	svc, mock, cleanup := newTestService(t, leads, careers, courses, terms, regs)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectCommit()

	leadID, err := svc.Create(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), leadID)

	assert.Equal(t, []string{
		"lead:1",
		"career:Engineering:1",
		"term:2024:1:1",
		"course:Mathematics:1",
		"registration:1:1",
		"course:Science:2",
		"registration:2:2",
	}, log.events)

	require.Len(t, terms.created, 1)
	assert.Equal(t, int64(1), terms.created[0].CareerID)
	assert.Equal(t, int64(1), terms.created[0].LeadID)
	require.Len(t, regs.created, 2)
	assert.Equal(t, 2, regs.created[1].TimesTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadServiceCreateEmptyEnrollments(t *testing.T) {
	leads := &leadRepoMock{}
	terms := &termRepoMock{}
	regs := &registrationRepoMock{}
	svc, mock, cleanup := newTestService(t, leads, &careerResolverMock{}, &courseResolverMock{}, terms, regs)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectCommit()

	leadID, err := svc.Create(context.Background(), dto.CreateLeadRequest{Name: "Diego", Surname: "Maradona"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), leadID)
	assert.Empty(t, terms.created)
	assert.Empty(t, regs.created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadServiceCreateReusesCareerAcrossTerms(t *testing.T) {
	careers := &careerResolverMock{}
	terms := &termRepoMock{}
	svc, mock, cleanup := newTestService(t, &leadRepoMock{}, careers, &courseResolverMock{}, terms, &registrationRepoMock{})
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectCommit()

	req := dto.CreateLeadRequest{
		Name:    "Lionel",
		Surname: "Messi",
		Enrollments: []dto.EnrollmentTermInput{
			{Career: "Engineering", Year: 2023},
			{Career: "Engineering", Year: 2024},
		},
	}
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, terms.created, 2)
	assert.Equal(t, terms.created[0].CareerID, terms.created[1].CareerID)
	assert.Len(t, careers.byName, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadServiceCreateInvalidPayload(t *testing.T) {
	svc, _, cleanup := newTestService(t, &leadRepoMock{}, &careerResolverMock{}, &courseResolverMock{}, &termRepoMock{}, &registrationRepoMock{})
	defer cleanup()

	_, err := svc.Create(context.Background(), dto.CreateLeadRequest{Name: "Lionel"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestLeadServiceCreateRollsBackOnFailure(t *testing.T) {
	terms := &termRepoMock{createErr: errors.New("disk full")}
	svc, mock, cleanup := newTestService(t, &leadRepoMock{}, &careerResolverMock{}, &courseResolverMock{}, terms, &registrationRepoMock{})
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectRollback()

	req := dto.CreateLeadRequest{
		Name:    "Lionel",
		Surname: "Messi",
		Enrollments: []dto.EnrollmentTermInput{{Career: "Engineering", Year: 2024}},
	}
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadServiceListRejectsNegativeBounds(t *testing.T) {
	svc, _, cleanup := newTestService(t, &leadRepoMock{}, &careerResolverMock{}, &courseResolverMock{}, &termRepoMock{}, &registrationRepoMock{})
	defer cleanup()

	for _, filter := range []models.LeadFilter{
		{Limit: -1, Offset: 0},
		{Limit: 1, Offset: -1},
	} {
		_, _, err := svc.List(context.Background(), filter)
		require.Error(t, err)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
		assert.Equal(t, "Illegal limit/offset value. Only numbers >= 0.", appErr.Message)
	}
}

func TestLeadServiceListZeroLimit(t *testing.T) {
	leads := &leadRepoMock{listResp: []models.Lead{}, total: 3}
	svc, _, cleanup := newTestService(t, leads, &careerResolverMock{}, &courseResolverMock{}, &termRepoMock{}, &registrationRepoMock{})
	defer cleanup()

	page, pagination, err := svc.List(context.Background(), models.LeadFilter{Limit: 0, Offset: 0})
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Equal(t, 3, pagination.TotalCount)
	assert.Equal(t, 0, pagination.Limit)
}

func TestLeadServiceGetNotFound(t *testing.T) {
	svc, _, cleanup := newTestService(t, &leadRepoMock{}, &careerResolverMock{}, &courseResolverMock{}, &termRepoMock{}, &registrationRepoMock{})
	defer cleanup()

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "Lead with id 42 not found.", appErr.Message)
}

func TestLeadServiceGetAssemblesHistory(t *testing.T) {
	leads := &leadRepoMock{leads: map[int64]models.Lead{
		1: {ID: 1, Name: "Lionel", Surname: "Messi"},
	}}
	terms := &termRepoMock{listResp: []models.EnrollmentTermDetail{
		{EnrollmentTerm: models.EnrollmentTerm{Year: 2024, CareerID: 7, LeadID: 1}, CareerName: "Engineering"},
	}}
	regs := &registrationRepoMock{listResp: map[int][]models.RegistrationDetail{
		2024: {
			{Registration: models.Registration{Year: 2024, CareerID: 7, LeadID: 1, CourseID: 4, TimesTaken: 1}, CourseName: "Mathematics"},
			{Registration: models.Registration{Year: 2024, CareerID: 7, LeadID: 1, CourseID: 9, TimesTaken: 2}, CourseName: "Science"},
		},
	}}
	svc, _, cleanup := newTestService(t, leads, &careerResolverMock{}, &courseResolverMock{}, terms, regs)
	defer cleanup()

	detail, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Lionel", detail.Name)
	assert.Equal(t, "Messi", detail.Surname)
	require.Len(t, detail.Enrollments, 1)
	assert.Equal(t, "Engineering", detail.Enrollments[0].CareerName)
	require.Len(t, detail.Enrollments[0].Registrations, 2)
	assert.Equal(t, "Science", detail.Enrollments[0].Registrations[1].CourseName)
}
