package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/edusales/leads-api/internal/dto"
	"github.com/edusales/leads-api/internal/models"
	"github.com/edusales/leads-api/internal/repository"
	appErrors "github.com/edusales/leads-api/pkg/errors"
)

type leadRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, lead *models.Lead) error
	List(ctx context.Context, filter models.LeadFilter) ([]models.Lead, int, error)
	FindByID(ctx context.Context, id int64) (*models.Lead, error)
}

type careerResolver interface {
	ResolveByName(ctx context.Context, exec sqlx.ExtContext, name string) (*models.Career, error)
}

type courseResolver interface {
	ResolveByName(ctx context.Context, exec sqlx.ExtContext, name string, careerID int64) (*models.Course, error)
}

type enrollmentTermRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, term *models.EnrollmentTerm) error
	ListByLead(ctx context.Context, leadID int64) ([]models.EnrollmentTermDetail, error)
}

type registrationRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, reg *models.Registration) error
	ListByTerm(ctx context.Context, year int, careerID, leadID int64) ([]models.RegistrationDetail, error)
}

const leadCacheNamespace = "leads:"

// LeadService implements lead creation (the normalization cascade) and the
// read-only lead queries.
type LeadService struct {
	db            *sqlx.DB
	leads         leadRepository
	careers       careerResolver
	courses       courseResolver
	terms         enrollmentTermRepository
	registrations registrationRepository
	cache         *CacheService
	metrics       *MetricsService
	cacheTTL      time.Duration
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewLeadService constructs the lead service.
func NewLeadService(
	db *sqlx.DB,
	leads leadRepository,
	careers careerResolver,
	courses courseResolver,
	terms enrollmentTermRepository,
	registrations registrationRepository,
	cache *CacheService,
	metrics *MetricsService,
	cacheTTL time.Duration,
	validate *validator.Validate,
	logger *zap.Logger,
) *LeadService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadService{
		db:            db,
		leads:         leads,
		careers:       careers,
		courses:       courses,
		terms:         terms,
		registrations: registrations,
		cache:         cache,
		metrics:       metrics,
		cacheTTL:      cacheTTL,
		validator:     validate,
		logger:        logger,
	}
}

// Create runs the lead creation cascade and returns the generated lead id.
//
// The whole cascade executes inside one transaction: the lead row first,
// then per enrollment term the career is resolved or created before the
// term row is inserted, then per registration the course is resolved or
// created before the registration row is inserted. Child rows reference
// parent-generated identifiers, so this order is load-bearing. Any failure
// rolls the entire document back; no partial lead is ever visible.
func (s *LeadService) Create(ctx context.Context, req dto.CreateLeadRequest) (int64, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lead payload")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	lead := models.Lead{
		Name:    req.Name,
		Surname: req.Surname,
		Email:   req.Email,
		Address: req.Address,
		Phone:   req.Phone,
	}
	if err := s.leads.Create(ctx, tx, &lead); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lead")
	}

	registrationCount := 0
	for _, termInput := range req.Enrollments {
		career, err := s.careers.ResolveByName(ctx, tx, termInput.Career)
		if err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve career")
		}

		term := models.EnrollmentTerm{
			Year:       termInput.Year,
			CareerID:   career.ID,
			LeadID:     lead.ID,
			University: termInput.University,
		}
		if err := s.terms.Create(ctx, tx, &term); err != nil {
			if repository.IsDuplicateKey(err) {
				return 0, appErrors.Clone(appErrors.ErrConflict,
					fmt.Sprintf("duplicate enrollment term for career %q in %d", termInput.Career, termInput.Year))
			}
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment term")
		}

		for _, regInput := range termInput.Registrations {
			course, err := s.courses.ResolveByName(ctx, tx, regInput.Course, career.ID)
			if err != nil {
				return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve course")
			}

			reg := models.Registration{
				Year:       term.Year,
				CareerID:   career.ID,
				LeadID:     lead.ID,
				CourseID:   course.ID,
				TimesTaken: regInput.TimesTaken,
			}
			if err := s.registrations.Create(ctx, tx, &reg); err != nil {
				if repository.IsDuplicateKey(err) {
					return 0, appErrors.Clone(appErrors.ErrConflict,
						fmt.Sprintf("duplicate registration for course %q in %d", regInput.Course, termInput.Year))
				}
				return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create registration")
			}
			registrationCount++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit lead")
	}

	s.logger.Debug("lead created",
		zap.Int64("lead_id", lead.ID),
		zap.Int("enrollment_terms", len(req.Enrollments)),
		zap.Int("registrations", registrationCount),
	)
	if s.metrics != nil {
		s.metrics.RecordLeadCascade(len(req.Enrollments), registrationCount)
	}
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, leadCacheNamespace+"*")
	}

	return lead.ID, nil
}

// List returns a page of leads in insertion order. Both limit and offset
// must be >= 0; a limit of zero is valid and yields an empty page.
func (s *LeadService) List(ctx context.Context, filter models.LeadFilter) ([]models.Lead, *models.Pagination, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, appErrors.MsgIllegalPagination)
	}

	leads, total, err := s.leads.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leads")
	}

	pagination := &models.Pagination{Limit: filter.Limit, Offset: filter.Offset, TotalCount: total}
	return leads, pagination, nil
}

// Get returns one lead with its enrollment history assembled from explicit
// foreign-key queries.
func (s *LeadService) Get(ctx context.Context, id int64) (*models.LeadDetail, error) {
	cacheKey := fmt.Sprintf("%sdetail:%d", leadCacheNamespace, id)
	if s.cache.Enabled() {
		var cached models.LeadDetail
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.LeadNotFound(id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lead")
	}

	terms, err := s.terms.ListByLead(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment terms")
	}
	for i := range terms {
		regs, err := s.registrations.ListByTerm(ctx, terms[i].Year, terms[i].CareerID, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
		}
		terms[i].Registrations = regs
	}

	detail := &models.LeadDetail{Lead: *lead, Enrollments: terms}
	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, detail, s.cacheTTL)
	}
	return detail, nil
}
