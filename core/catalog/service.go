package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/learnifyhq/learnify/core"
)

var (
	// errors
	ErrNotFound      = errors.New("class not found or already processed")
	ErrInvalidAction = errors.New("invalid action")
)

type (
	Repository interface {
		CreateTeacherRequest(ctx context.Context, req TeacherRequest) (TeacherRequest, error)
		// FilterTeacherRequests applies AND on available QueryFilter fields and
		// returns the page of requests plus the unpaged match count.
		FilterTeacherRequests(ctx context.Context, filter QueryFilter, page core.Pagination) ([]TeacherRequest, int64, error)
		// UpdateTeacherRequestStatus transitions status from `from` to `to` and
		// returns the updated request. ErrNotFound when no document matched,
		// including documents already in a terminal state.
		UpdateTeacherRequestStatus(ctx context.Context, id, from, to string) (TeacherRequest, error)

		CreateClassOffering(ctx context.Context, class ClassOffering) (ClassOffering, error)
		FilterClassOfferings(ctx context.Context, filter QueryFilter, page core.Pagination) ([]ClassOffering, int64, error)
		QueryAllClassOfferings(ctx context.Context) ([]ClassOffering, error)
		GetClassOfferingByID(ctx context.Context, id string) (ClassOffering, error)
		UpdateClassOfferingStatus(ctx context.Context, id, from, to string) (ClassOffering, error)
		// UpdateClassOffering partially updates the client-mutable fields.
		// ErrNotFound when the update matched no document or changed nothing.
		UpdateClassOffering(ctx context.Context, id string, up UpdateClassOffering) error
		DeleteClassOffering(ctx context.Context, id string) error
	}

	// RolePromoter elevates the user owning an email to teacher. Implemented
	// by the identity service; kept as an interface so the lifecycle machine
	// and its side effect stay independently testable.
	RolePromoter interface {
		PromoteTeacherByEmail(ctx context.Context, email string) error
	}

	Service struct {
		repo     Repository
		promoter RolePromoter
		mailSvc  core.EmailService
		logger   core.Logger
	}
)

func NewService(repo Repository, promoter RolePromoter, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		promoter: promoter,
		mailSvc:  mailSvc,
		logger:   logger,
	}
}

func IsValidAction(action string) bool {
	return action == ActionApprove || action == ActionReject
}

func (svc *Service) SubmitTeacherRequest(ctx context.Context, nr NewTeacherRequest) (TeacherRequest, error) {
	req := TeacherRequest{
		Name:            nr.Name,
		InstructorEmail: nr.InstructorEmail,
		Title:           nr.Title,
		Category:        nr.Category,
		Experience:      nr.Experience,
		Description:     nr.Description,
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	return svc.repo.CreateTeacherRequest(ctx, req)
}

func (svc *Service) ListTeacherRequests(ctx context.Context, filter QueryFilter, page core.Pagination) (TeacherRequestPage, error) {
	filter.Clean()
	page.Clean()
	reqs, count, err := svc.repo.FilterTeacherRequests(ctx, filter, page)
	if err != nil {
		return TeacherRequestPage{}, err
	}
	return TeacherRequestPage{
		Requests:    reqs,
		TotalPages:  page.TotalPages(count),
		CurrentPage: page.Page,
	}, nil
}

// DecideTeacherRequest moves a pending request to its terminal state. On
// approval the instructor is promoted to teacher and notified; both side
// effects are best-effort and never revert the approval.
func (svc *Service) DecideTeacherRequest(ctx context.Context, id, action string) error {
	if !IsValidAction(action) {
		return core.NewValidationError(ErrInvalidAction)
	}
	req, err := svc.repo.UpdateTeacherRequestStatus(ctx, id, StatusPending, statusForAction(action))
	if err != nil {
		return err
	}
	if action == ActionApprove {
		svc.promote(ctx, req.InstructorEmail, req.Name, req.Title)
	}
	return nil
}

func (svc *Service) SubmitClassOffering(ctx context.Context, nc NewClassOffering) (ClassOffering, error) {
	class := ClassOffering{
		InstructorName:  nc.InstructorName,
		InstructorEmail: nc.InstructorEmail,
		Title:           nc.Title,
		Price:           nc.Price,
		Description:     nc.Description,
		Image:           nc.Image,
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	return svc.repo.CreateClassOffering(ctx, class)
}

func (svc *Service) ListClassOfferings(ctx context.Context, filter QueryFilter, page core.Pagination) (ClassOfferingPage, error) {
	filter.Clean()
	page.Clean()
	classes, count, err := svc.repo.FilterClassOfferings(ctx, filter, page)
	if err != nil {
		return ClassOfferingPage{}, err
	}
	return ClassOfferingPage{
		Classes:     classes,
		TotalPages:  page.TotalPages(count),
		CurrentPage: page.Page,
	}, nil
}

func (svc *Service) QueryAllClassOfferings(ctx context.Context) ([]ClassOffering, error) {
	return svc.repo.QueryAllClassOfferings(ctx)
}

func (svc *Service) GetClassOffering(ctx context.Context, id string) (ClassOffering, error) {
	return svc.repo.GetClassOfferingByID(ctx, id)
}

// DecideClassOffering applies the same pending→terminal contract to a class,
// with the same promotion side effect on approval.
func (svc *Service) DecideClassOffering(ctx context.Context, id, action string) error {
	if !IsValidAction(action) {
		return core.NewValidationError(ErrInvalidAction)
	}
	class, err := svc.repo.UpdateClassOfferingStatus(ctx, id, StatusPending, statusForAction(action))
	if err != nil {
		return err
	}
	if action == ActionApprove {
		svc.promote(ctx, class.InstructorEmail, class.InstructorName, class.Title)
	}
	return nil
}

func (svc *Service) UpdateClassOffering(ctx context.Context, id string, up UpdateClassOffering) error {
	if up.IsEmpty() {
		return ErrNotFound // "no changes made" semantics
	}
	return svc.repo.UpdateClassOffering(ctx, id, up)
}

// DeleteClassOffering deletes the offering only; child enrollments,
// assignments, evaluations and resources are not cascaded. Enriched listings
// degrade on the orphans as each join contract specifies.
func (svc *Service) DeleteClassOffering(ctx context.Context, id string) error {
	return svc.repo.DeleteClassOffering(ctx, id)
}

// promote runs the post-approval side effects. The primary status write has
// already committed; failures here are logged and reported nowhere else.
func (svc *Service) promote(ctx context.Context, email, name, title string) {
	if err := svc.promoter.PromoteTeacherByEmail(ctx, email); err != nil {
		svc.logger.Error(
			fmt.Sprintf("promoting %s to teacher after approval: %v", email, err),
			pkgerrors.Wrap(err, "promoting instructor"),
		)
	}
	subject := "Your application has been approved"
	body := fmt.Sprintf(
		"Hi %s,\n\nCongratulations! %q has been approved. You can now manage it from your teacher dashboard.\n",
		name, title,
	)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: name, Address: email}},
		Subject: subject,
		BodyStr: body,
	})
}
