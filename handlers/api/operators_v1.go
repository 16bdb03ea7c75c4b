package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/texuf/towns-utils/services"
	"github.com/texuf/towns-utils/types"
)

// ReportProvider serves operator reports, usually backed by the operator service.
type ReportProvider interface {
	GetCachedOperatorsReport(ctx context.Context) (*types.OperatorsReport, error)
	GetNetworkApy(ctx context.Context) (float64, error)
}

type ApiHandler struct {
	provider    ReportProvider
	rateLimiter *services.CallRateLimiter
	logger      logrus.FieldLogger
}

// APINetworkApyData is the payload of the network apy endpoint.
type APINetworkApyData struct {
	NetworkEstimatedApy float64 `json:"networkEstimatedApy"`
}

// NewApiHandler creates the api handler, rateLimiter may be nil.
func NewApiHandler(provider ReportProvider, rateLimiter *services.CallRateLimiter, logger logrus.FieldLogger) *ApiHandler {
	return &ApiHandler{
		provider:    provider,
		rateLimiter: rateLimiter,
		logger:      logger.WithField("module", "api"),
	}
}

func (h *ApiHandler) RegisterRoutes(router *mux.Router) {
	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.HandleFunc("/operators", h.OperatorsV1).Methods("GET")
	apiRouter.HandleFunc("/operators/{address}", h.OperatorV1).Methods("GET")
	apiRouter.HandleFunc("/network-apy", h.NetworkApyV1).Methods("GET")
}

func (h *ApiHandler) checkRateLimit(w http.ResponseWriter, r *http.Request, route string, cost uint) bool {
	if err := h.rateLimiter.CheckCallLimit(r, cost); err != nil {
		sendErrorWithCodeResponse(w, route, err.Error(), http.StatusTooManyRequests)
		return false
	}
	return true
}

// OperatorsV1 returns the active operators and the network apy.
func (h *ApiHandler) OperatorsV1(w http.ResponseWriter, r *http.Request) {
	route := r.URL.String()
	if !h.checkRateLimit(w, r, route, 1) {
		return
	}

	report, err := h.provider.GetCachedOperatorsReport(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed building operators report")
		sendServerErrorResponse(w, route, err.Error())
		return
	}

	sendOKResponse(w, route, report)
}

// OperatorV1 returns a single active operator by address.
func (h *ApiHandler) OperatorV1(w http.ResponseWriter, r *http.Request) {
	route := r.URL.String()
	if !h.checkRateLimit(w, r, route, 1) {
		return
	}

	addressParam := mux.Vars(r)["address"]
	if !common.IsHexAddress(addressParam) {
		sendBadRequestResponse(w, route, "invalid operator address")
		return
	}
	address := common.HexToAddress(addressParam)

	report, err := h.provider.GetCachedOperatorsReport(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed building operators report")
		sendServerErrorResponse(w, route, err.Error())
		return
	}

	for _, operator := range report.Operators {
		if strings.EqualFold(operator.Address, address.Hex()) {
			sendOKResponse(w, route, operator)
			return
		}
	}

	sendNotFoundResponse(w, route, "operator not found or not active")
}

// NetworkApyV1 returns the estimated network apy.
func (h *ApiHandler) NetworkApyV1(w http.ResponseWriter, r *http.Request) {
	route := r.URL.String()
	if !h.checkRateLimit(w, r, route, 1) {
		return
	}

	apy, err := h.provider.GetNetworkApy(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed reading network apy")
		sendServerErrorResponse(w, route, err.Error())
		return
	}

	sendOKResponse(w, route, &APINetworkApyData{
		NetworkEstimatedApy: apy,
	})
}
