// Package handler is the HTTP surface of the governance core. Handlers only
// decode, call the service and encode; authorization is done by RequireAuth
// and the Guard before a handler runs.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"condovote/internal/condominium/models"
	"condovote/internal/condominium/service"
	"condovote/internal/identity"
	id "condovote/pkg/domain"
	dErrors "condovote/pkg/domain-errors"
	"condovote/pkg/platform/httputil"
	"condovote/pkg/requestcontext"
)

// Service defines the governance operations exposed over HTTP.
type Service interface {
	RegisterCondominium(ctx context.Context, req models.RegisterCondominiumRequest) (*service.RegistrationResult, error)
	ProvisionCondominium(ctx context.Context, cid id.CondominiumID) (*models.Condominium, error)
	GetCondominium(ctx context.Context, cid id.CondominiumID) (*models.Condominium, error)
	CondominiumsForResident(ctx context.Context, taxCode id.TaxCode) ([]*models.Condominium, error)
	AddResident(ctx context.Context, cid id.CondominiumID, req models.ResidentRequest) (*models.Resident, error)
	CreateElection(ctx context.Context, cid id.CondominiumID, req models.CreateElectionRequest) (*service.ElectionCreated, error)
	SubmitVote(ctx context.Context, req models.VoteRequest) (*service.VoteReceipt, error)
	GetResults(ctx context.Context, cid id.CondominiumID, electionID uint64) (*models.ElectionResults, error)
	CloseElection(ctx context.Context, cid id.CondominiumID, electionID uint64) (*service.CloseReceipt, error)
}

type Registry interface {
	GroupCommitments(ctx context.Context, cid id.CondominiumID) ([]string, error)
}

type Enroller interface {
	EnrollUser(ctx context.Context, req identity.EnrollUserRequest) (*models.User, error)
	Register(ctx context.Context, taxCode id.TaxCode, commitment string) error
	Commitment(ctx context.Context, taxCode id.TaxCode) (string, error)
}

type Reconciler interface {
	Report(ctx context.Context) (*models.ReconciliationReport, error)
	Sweep(ctx context.Context) (int, error)
}

type Handler struct {
	service    Service
	registry   Registry
	enroller   Enroller
	reconciler Reconciler
	guard      *Guard
	logger     *slog.Logger
}

func New(svc Service, registry Registry, enroller Enroller, reconciler Reconciler, guard *Guard, logger *slog.Logger) *Handler {
	return &Handler{
		service:    svc,
		registry:   registry,
		enroller:   enroller,
		reconciler: reconciler,
		guard:      guard,
		logger:     logger,
	}
}

// Register mounts the resident-facing routes. The router must already
// authenticate requests.
func (h *Handler) Register(r chi.Router) {
	r.Post("/users/me", h.HandleEnroll)
	r.Put("/users/me/commitment", h.HandleRegisterCommitment)
	r.Get("/users/me/commitment", h.HandleGetCommitment)
	r.Get("/users/me/condominiums", h.HandleListCondominiums)

	r.Post("/condominiums", h.HandleRegisterCondominium)
	r.Route("/condominiums/{condominiumID}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.guard.RequireMember)
			r.Get("/", h.HandleGetCondominium)
			r.Get("/group", h.HandleGroup)
			r.Post("/elections/{electionID}/vote", h.HandleVote)
			r.Get("/elections/{electionID}/results", h.HandleResults)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.guard.RequireAdmin)
			r.Post("/residents", h.HandleAddResident)
			r.Post("/provision", h.HandleProvision)
			r.Post("/elections", h.HandleCreateElection)
			r.Put("/elections/{electionID}/close", h.HandleClose)
		})
	})
}

// RegisterAdmin mounts operator routes. The router must already check the
// admin token.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/reconciliation", h.HandleReconciliationReport)
	r.Post("/admin/reconciliation/sweep", h.HandleSweep)
}

// HandleEnroll handles POST /users/me.
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[enrollRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	user, err := h.enroller.EnrollUser(ctx, identity.EnrollUserRequest{
		TaxCode:    requestcontext.Resident(ctx).String(),
		Name:       req.Name,
		Email:      req.Email,
		BirthDate:  req.BirthDate,
		BirthPlace: req.BirthPlace,
	})
	if err != nil {
		h.fail(ctx, w, "user enrollment failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

// HandleRegisterCommitment handles PUT /users/me/commitment.
func (h *Handler) HandleRegisterCommitment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[models.RegisterCommitmentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.enroller.Register(ctx, requestcontext.Resident(ctx), req.Commitment); err != nil {
		h.fail(ctx, w, "commitment registration failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, commitmentResponse{Commitment: req.Commitment})
}

// HandleGetCommitment handles GET /users/me/commitment.
func (h *Handler) HandleGetCommitment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	commitment, err := h.enroller.Commitment(ctx, requestcontext.Resident(ctx))
	if err != nil {
		h.fail(ctx, w, "commitment lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, commitmentResponse{Commitment: commitment})
}

// HandleListCondominiums handles GET /users/me/condominiums.
func (h *Handler) HandleListCondominiums(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.service.CondominiumsForResident(ctx, requestcontext.Resident(ctx))
	if err != nil {
		h.fail(ctx, w, "listing condominiums failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// HandleRegisterCondominium handles POST /condominiums. The authenticated
// resident becomes the administrator.
func (h *Handler) HandleRegisterCondominium(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[registerCondominiumRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	req.Admin.TaxCode = requestcontext.Resident(ctx).String()
	result, err := h.service.RegisterCondominium(ctx, req.RegisterCondominiumRequest)
	if err != nil {
		h.fail(ctx, w, "condominium registration failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}

// HandleGetCondominium handles GET /condominiums/{condominiumID}.
func (h *Handler) HandleGetCondominium(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cid, ok := parseCondominiumID(w, r)
	if !ok {
		return
	}
	c, err := h.service.GetCondominium(ctx, cid)
	if err != nil {
		h.fail(ctx, w, "condominium lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// HandleGroup handles GET /condominiums/{condominiumID}/group.
func (h *Handler) HandleGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cid, ok := parseCondominiumID(w, r)
	if !ok {
		return
	}
	commitments, err := h.registry.GroupCommitments(ctx, cid)
	if err != nil {
		h.fail(ctx, w, "group lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, groupResponse{Commitments: commitments})
}

// HandleAddResident handles POST /condominiums/{condominiumID}/residents.
func (h *Handler) HandleAddResident(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	cid, ok := parseCondominiumID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.ResidentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	resident, err := h.service.AddResident(ctx, cid, *req)
	if err != nil {
		h.fail(ctx, w, "adding resident failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resident)
}

// HandleProvision handles POST /condominiums/{condominiumID}/provision.
func (h *Handler) HandleProvision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cid, ok := parseCondominiumID(w, r)
	if !ok {
		return
	}
	c, err := h.service.ProvisionCondominium(ctx, cid)
	if err != nil {
		h.fail(ctx, w, "contract provisioning failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// HandleCreateElection handles POST /condominiums/{condominiumID}/elections.
func (h *Handler) HandleCreateElection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	cid, ok := parseCondominiumID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.CreateElectionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	created, err := h.service.CreateElection(ctx, cid, *req)
	if err != nil {
		h.fail(ctx, w, "election creation failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

// HandleVote handles POST /condominiums/{condominiumID}/elections/{electionID}/vote.
func (h *Handler) HandleVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	cid, ok := parseCondominiumID(w, r)
	if !ok {
		return
	}
	electionID, ok := parseElectionID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.VoteRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	req.CondominiumID = cid
	req.ElectionID = electionID
	receipt, err := h.service.SubmitVote(ctx, *req)
	if err != nil {
		h.fail(ctx, w, "vote submission failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, receipt)
}

// HandleResults handles GET /condominiums/{condominiumID}/elections/{electionID}/results.
func (h *Handler) HandleResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cid, ok := parseCondominiumID(w, r)
	if !ok {
		return
	}
	electionID, ok := parseElectionID(w, r)
	if !ok {
		return
	}
	results, err := h.service.GetResults(ctx, cid, electionID)
	if err != nil {
		h.fail(ctx, w, "results lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, results)
}

// HandleClose handles PUT /condominiums/{condominiumID}/elections/{electionID}/close.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cid, ok := parseCondominiumID(w, r)
	if !ok {
		return
	}
	electionID, ok := parseElectionID(w, r)
	if !ok {
		return
	}
	receipt, err := h.service.CloseElection(ctx, cid, electionID)
	if err != nil {
		h.fail(ctx, w, "election close failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, receipt)
}

// HandleReconciliationReport handles GET /admin/reconciliation.
func (h *Handler) HandleReconciliationReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := h.reconciler.Report(ctx)
	if err != nil {
		h.fail(ctx, w, "reconciliation report failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleSweep handles POST /admin/reconciliation/sweep.
func (h *Handler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resolved, err := h.reconciler.Sweep(ctx)
	if err != nil {
		h.fail(ctx, w, "reconciliation sweep failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sweepResponse{Resolved: resolved})
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	args := []any{"request_id", requestcontext.RequestID(ctx), "error", err}
	if dErrors.ToHTTPStatus(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	httputil.WriteError(w, err)
}

func parseCondominiumID(w http.ResponseWriter, r *http.Request) (id.CondominiumID, bool) {
	cid, err := id.ParseCondominiumID(chi.URLParam(r, "condominiumID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.CondominiumID{}, false
	}
	return cid, true
}

func parseElectionID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	v, err := strconv.ParseUint(chi.URLParam(r, "electionID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "election id must be an unsigned integer"))
		return 0, false
	}
	return v, true
}
