package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
)

const SettlementServiceName = "wiselyspent.v1.SettlementService"

const (
	SettlementServicePlanSettlementProcedure = "/" + SettlementServiceName + "/PlanSettlement"
	SettlementServiceSettleProcedure         = "/" + SettlementServiceName + "/Settle"
	SettlementServiceRecordPaymentProcedure  = "/" + SettlementServiceName + "/RecordPayment"
	SettlementServiceListPaymentsProcedure   = "/" + SettlementServiceName + "/ListPayments"
	SettlementServiceDeletePaymentProcedure  = "/" + SettlementServiceName + "/DeletePayment"
	SettlementServiceRemindProcedure         = "/" + SettlementServiceName + "/Remind"
)

// SettlementServiceHandler is implemented by the server side of SettlementService.
type SettlementServiceHandler interface {
	PlanSettlement(context.Context, *connect.Request[PlanSettlementRequest]) (*connect.Response[PlanSettlementResponse], error)
	Settle(context.Context, *connect.Request[SettleRequest]) (*connect.Response[SettleResponse], error)
	RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error)
	DeletePayment(context.Context, *connect.Request[DeletePaymentRequest]) (*connect.Response[emptypb.Empty], error)
	Remind(context.Context, *connect.Request[RemindRequest]) (*connect.Response[RemindResponse], error)
}

// NewSettlementServiceHandler returns the path prefix and handler serving svc.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(SettlementServicePlanSettlementProcedure, connect.NewUnaryHandler(SettlementServicePlanSettlementProcedure, svc.PlanSettlement, opts...))
	mux.Handle(SettlementServiceSettleProcedure, connect.NewUnaryHandler(SettlementServiceSettleProcedure, svc.Settle, opts...))
	mux.Handle(SettlementServiceRecordPaymentProcedure, connect.NewUnaryHandler(SettlementServiceRecordPaymentProcedure, svc.RecordPayment, opts...))
	mux.Handle(SettlementServiceListPaymentsProcedure, connect.NewUnaryHandler(SettlementServiceListPaymentsProcedure, svc.ListPayments, opts...))
	mux.Handle(SettlementServiceDeletePaymentProcedure, connect.NewUnaryHandler(SettlementServiceDeletePaymentProcedure, svc.DeletePayment, opts...))
	mux.Handle(SettlementServiceRemindProcedure, connect.NewUnaryHandler(SettlementServiceRemindProcedure, svc.Remind, opts...))
	return "/" + SettlementServiceName + "/", mux
}

// SettlementServiceClient calls SettlementService over Connect.
type SettlementServiceClient struct {
	planSettlement *connect.Client[PlanSettlementRequest, PlanSettlementResponse]
	settle         *connect.Client[SettleRequest, SettleResponse]
	recordPayment  *connect.Client[RecordPaymentRequest, RecordPaymentResponse]
	listPayments   *connect.Client[ListPaymentsRequest, ListPaymentsResponse]
	deletePayment  *connect.Client[DeletePaymentRequest, emptypb.Empty]
	remind         *connect.Client[RemindRequest, RemindResponse]
}

func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &SettlementServiceClient{
		planSettlement: connect.NewClient[PlanSettlementRequest, PlanSettlementResponse](httpClient, baseURL+SettlementServicePlanSettlementProcedure, opts...),
		settle:         connect.NewClient[SettleRequest, SettleResponse](httpClient, baseURL+SettlementServiceSettleProcedure, opts...),
		recordPayment:  connect.NewClient[RecordPaymentRequest, RecordPaymentResponse](httpClient, baseURL+SettlementServiceRecordPaymentProcedure, opts...),
		listPayments:   connect.NewClient[ListPaymentsRequest, ListPaymentsResponse](httpClient, baseURL+SettlementServiceListPaymentsProcedure, opts...),
		deletePayment:  connect.NewClient[DeletePaymentRequest, emptypb.Empty](httpClient, baseURL+SettlementServiceDeletePaymentProcedure, opts...),
		remind:         connect.NewClient[RemindRequest, RemindResponse](httpClient, baseURL+SettlementServiceRemindProcedure, opts...),
	}
}

func (c *SettlementServiceClient) PlanSettlement(ctx context.Context, req *connect.Request[PlanSettlementRequest]) (*connect.Response[PlanSettlementResponse], error) {
	return c.planSettlement.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) Settle(ctx context.Context, req *connect.Request[SettleRequest]) (*connect.Response[SettleResponse], error) {
	return c.settle.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) RecordPayment(ctx context.Context, req *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) ListPayments(ctx context.Context, req *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) DeletePayment(ctx context.Context, req *connect.Request[DeletePaymentRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.deletePayment.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) Remind(ctx context.Context, req *connect.Request[RemindRequest]) (*connect.Response[RemindResponse], error) {
	return c.remind.CallUnary(ctx, req)
}
