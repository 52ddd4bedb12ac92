package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/dangidongi/pkg/api"
)

const SettlementServiceName = "dangidongi.v1.SettlementService"

const (
	SettlementServiceCalculateProcedure         = "/" + SettlementServiceName + "/Calculate"
	SettlementServiceSaveCalculationProcedure   = "/" + SettlementServiceName + "/SaveCalculation"
	SettlementServiceGetCalculationProcedure    = "/" + SettlementServiceName + "/GetCalculation"
	SettlementServiceListCalculationsProcedure  = "/" + SettlementServiceName + "/ListCalculations"
	SettlementServiceDeleteCalculationProcedure = "/" + SettlementServiceName + "/DeleteCalculation"
)

// SettlementServiceHandler is implemented by the settlement service.
type SettlementServiceHandler interface {
	Calculate(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error)
	SaveCalculation(context.Context, *connect.Request[api.SaveCalculationRequest]) (*connect.Response[api.SaveCalculationResponse], error)
	GetCalculation(context.Context, *connect.Request[api.GetCalculationRequest]) (*connect.Response[api.GetCalculationResponse], error)
	ListCalculations(context.Context, *connect.Request[api.ListCalculationsRequest]) (*connect.Response[api.ListCalculationsResponse], error)
	DeleteCalculation(context.Context, *connect.Request[api.DeleteCalculationRequest]) (*connect.Response[api.DeleteCalculationResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler for the service and
// returns the path prefix to mount it on.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	routes := map[string]http.Handler{
		SettlementServiceCalculateProcedure:         connect.NewUnaryHandler(SettlementServiceCalculateProcedure, svc.Calculate, opts...),
		SettlementServiceSaveCalculationProcedure:   connect.NewUnaryHandler(SettlementServiceSaveCalculationProcedure, svc.SaveCalculation, opts...),
		SettlementServiceGetCalculationProcedure:    connect.NewUnaryHandler(SettlementServiceGetCalculationProcedure, svc.GetCalculation, opts...),
		SettlementServiceListCalculationsProcedure:  connect.NewUnaryHandler(SettlementServiceListCalculationsProcedure, svc.ListCalculations, opts...),
		SettlementServiceDeleteCalculationProcedure: connect.NewUnaryHandler(SettlementServiceDeleteCalculationProcedure, svc.DeleteCalculation, opts...),
	}

	return "/" + SettlementServiceName + "/", router(routes)
}

// SettlementServiceClient calls a remote settlement service.
type SettlementServiceClient interface {
	Calculate(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error)
	SaveCalculation(context.Context, *connect.Request[api.SaveCalculationRequest]) (*connect.Response[api.SaveCalculationResponse], error)
	GetCalculation(context.Context, *connect.Request[api.GetCalculationRequest]) (*connect.Response[api.GetCalculationResponse], error)
	ListCalculations(context.Context, *connect.Request[api.ListCalculationsRequest]) (*connect.Response[api.ListCalculationsResponse], error)
	DeleteCalculation(context.Context, *connect.Request[api.DeleteCalculationRequest]) (*connect.Response[api.DeleteCalculationResponse], error)
}

// NewSettlementServiceClient creates a client for the service at baseURL
// (e.g. http://localhost:8080).
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)

	return &settlementServiceClient{
		calculate:         connect.NewClient[api.CalculateRequest, api.CalculateResponse](httpClient, baseURL+SettlementServiceCalculateProcedure, opts...),
		saveCalculation:   connect.NewClient[api.SaveCalculationRequest, api.SaveCalculationResponse](httpClient, baseURL+SettlementServiceSaveCalculationProcedure, opts...),
		getCalculation:    connect.NewClient[api.GetCalculationRequest, api.GetCalculationResponse](httpClient, baseURL+SettlementServiceGetCalculationProcedure, opts...),
		listCalculations:  connect.NewClient[api.ListCalculationsRequest, api.ListCalculationsResponse](httpClient, baseURL+SettlementServiceListCalculationsProcedure, opts...),
		deleteCalculation: connect.NewClient[api.DeleteCalculationRequest, api.DeleteCalculationResponse](httpClient, baseURL+SettlementServiceDeleteCalculationProcedure, opts...),
	}
}

type settlementServiceClient struct {
	calculate         *connect.Client[api.CalculateRequest, api.CalculateResponse]
	saveCalculation   *connect.Client[api.SaveCalculationRequest, api.SaveCalculationResponse]
	getCalculation    *connect.Client[api.GetCalculationRequest, api.GetCalculationResponse]
	listCalculations  *connect.Client[api.ListCalculationsRequest, api.ListCalculationsResponse]
	deleteCalculation *connect.Client[api.DeleteCalculationRequest, api.DeleteCalculationResponse]
}

func (c *settlementServiceClient) Calculate(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	return c.calculate.CallUnary(ctx, req)
}

func (c *settlementServiceClient) SaveCalculation(ctx context.Context, req *connect.Request[api.SaveCalculationRequest]) (*connect.Response[api.SaveCalculationResponse], error) {
	return c.saveCalculation.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetCalculation(ctx context.Context, req *connect.Request[api.GetCalculationRequest]) (*connect.Response[api.GetCalculationResponse], error) {
	return c.getCalculation.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListCalculations(ctx context.Context, req *connect.Request[api.ListCalculationsRequest]) (*connect.Response[api.ListCalculationsResponse], error) {
	return c.listCalculations.CallUnary(ctx, req)
}

func (c *settlementServiceClient) DeleteCalculation(ctx context.Context, req *connect.Request[api.DeleteCalculationRequest]) (*connect.Response[api.DeleteCalculationResponse], error) {
	return c.deleteCalculation.CallUnary(ctx, req)
}

// router dispatches on the exact procedure path.
func router(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}
