package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
)

const BalanceServiceName = "wiselyspent.v1.BalanceService"

const (
	BalanceServiceGetBalanceProcedure         = "/" + BalanceServiceName + "/GetBalance"
	BalanceServiceGetNetBalanceProcedure      = "/" + BalanceServiceName + "/GetNetBalance"
	BalanceServiceListFriendBalancesProcedure = "/" + BalanceServiceName + "/ListFriendBalances"
)

// BalanceServiceHandler is implemented by the server side of BalanceService.
type BalanceServiceHandler interface {
	GetBalance(context.Context, *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error)
	GetNetBalance(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[GetNetBalanceResponse], error)
	ListFriendBalances(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[ListFriendBalancesResponse], error)
}

// NewBalanceServiceHandler returns the path prefix and handler serving svc.
func NewBalanceServiceHandler(svc BalanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(BalanceServiceGetBalanceProcedure, connect.NewUnaryHandler(BalanceServiceGetBalanceProcedure, svc.GetBalance, opts...))
	mux.Handle(BalanceServiceGetNetBalanceProcedure, connect.NewUnaryHandler(BalanceServiceGetNetBalanceProcedure, svc.GetNetBalance, opts...))
	mux.Handle(BalanceServiceListFriendBalancesProcedure, connect.NewUnaryHandler(BalanceServiceListFriendBalancesProcedure, svc.ListFriendBalances, opts...))
	return "/" + BalanceServiceName + "/", mux
}

// BalanceServiceClient calls BalanceService over Connect.
type BalanceServiceClient struct {
	getBalance         *connect.Client[GetBalanceRequest, GetBalanceResponse]
	getNetBalance      *connect.Client[emptypb.Empty, GetNetBalanceResponse]
	listFriendBalances *connect.Client[emptypb.Empty, ListFriendBalancesResponse]
}

func NewBalanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BalanceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &BalanceServiceClient{
		getBalance:         connect.NewClient[GetBalanceRequest, GetBalanceResponse](httpClient, baseURL+BalanceServiceGetBalanceProcedure, opts...),
		getNetBalance:      connect.NewClient[emptypb.Empty, GetNetBalanceResponse](httpClient, baseURL+BalanceServiceGetNetBalanceProcedure, opts...),
		listFriendBalances: connect.NewClient[emptypb.Empty, ListFriendBalancesResponse](httpClient, baseURL+BalanceServiceListFriendBalancesProcedure, opts...),
	}
}

func (c *BalanceServiceClient) GetBalance(ctx context.Context, req *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error) {
	return c.getBalance.CallUnary(ctx, req)
}

func (c *BalanceServiceClient) GetNetBalance(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[GetNetBalanceResponse], error) {
	return c.getNetBalance.CallUnary(ctx, req)
}

func (c *BalanceServiceClient) ListFriendBalances(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListFriendBalancesResponse], error) {
	return c.listFriendBalances.CallUnary(ctx, req)
}
