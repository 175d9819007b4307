package rpc

// Timestamps are Unix seconds. Monetary amounts are float64 currency units.

type User struct {
	ID        string `json:"id"`
	CustomID  string `json:"customId,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedBy string   `json:"createdBy"`
	CreatedAt int64    `json:"createdAt"`
}

type Split struct {
	UserID     string   `json:"userId"`
	Amount     float64  `json:"amount"`
	Percentage *float64 `json:"percentage,omitempty"`
	Shares     *float64 `json:"shares,omitempty"`
}

type Expense struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	PaidBy      string  `json:"paidBy"`
	GroupID     string  `json:"groupId,omitempty"`
	Date        int64   `json:"date"`
	SplitType   string  `json:"splitType"`
	Splits      []Split `json:"splits"`
	CreatedBy   string  `json:"createdBy"`
	CreatedAt   int64   `json:"createdAt"`
}

type Payment struct {
	ID        string  `json:"id"`
	PayerID   string  `json:"payerId"`
	PayeeID   string  `json:"payeeId"`
	Amount    float64 `json:"amount"`
	GroupID   string  `json:"groupId,omitempty"`
	Date      int64   `json:"date"`
	Notes     string  `json:"notes,omitempty"`
	CreatedBy string  `json:"createdBy"`
}

// AuthService

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	CustomID string `json:"customId,omitempty"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// FindUserRequest looks a user up by email or custom ID.
type FindUserRequest struct {
	Query string `json:"query"`
}

type FindUserResponse struct {
	User *User `json:"user"`
}

// GroupService

type CreateGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type AddMembersRequest struct {
	GroupID   string   `json:"groupId"`
	MemberIDs []string `json:"memberIds"`
}

type AddMembersResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

type MemberBalance struct {
	UserID     string  `json:"userId"`
	Name       string  `json:"name"`
	NetBalance float64 `json:"netBalance"`
	TotalPaid  float64 `json:"totalPaid"`
	TotalOwed  float64 `json:"totalOwed"`
}

type DebtEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type GetGroupBalancesResponse struct {
	MemberBalances []MemberBalance `json:"memberBalances"`
	DebtMatrix     []DebtEdge      `json:"debtMatrix"`
}

// ExpenseService

// SplitEntry carries the per-participant parameter of a split: a percentage,
// an exact amount, a share count or an adjustment weight depending on the
// split type.
type SplitEntry struct {
	UserID string  `json:"userId"`
	Value  float64 `json:"value"`
}

// SplitSpec describes how an expense is divided. EQUAL uses ParticipantIDs;
// every other type uses Entries.
type SplitSpec struct {
	Type           string       `json:"type"`
	ParticipantIDs []string     `json:"participantIds,omitempty"`
	Entries        []SplitEntry `json:"entries,omitempty"`
}

type CreateExpenseRequest struct {
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	PaidBy      string    `json:"paidBy,omitempty"`
	GroupID     string    `json:"groupId,omitempty"`
	Date        int64     `json:"date,omitempty"`
	Split       SplitSpec `json:"split"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID      string `json:"groupId,omitempty"`
	PersonalOnly bool   `json:"personalOnly,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

// BalanceService

type GetBalanceRequest struct {
	FriendID string `json:"friendId"`
}

type GroupBalance struct {
	GroupID   string  `json:"groupId"`
	GroupName string  `json:"groupName"`
	Amount    float64 `json:"amount"`
}

// GetBalanceResponse amounts are from the caller's perspective: positive
// means the friend owes the caller.
type GetBalanceResponse struct {
	FriendID string         `json:"friendId"`
	Direct   float64        `json:"direct"`
	Groups   []GroupBalance `json:"groups"`
	Total    float64        `json:"total"`
}

type GetNetBalanceResponse struct {
	NetBalance float64 `json:"netBalance"`
	OwedToMe   float64 `json:"owedToMe"`
	IOwe       float64 `json:"iOwe"`
}

type FriendBalance struct {
	UserID string  `json:"userId"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type ListFriendBalancesResponse struct {
	Friends []FriendBalance `json:"friends"`
}

// SettlementService

type PlanSettlementRequest struct {
	TargetID string `json:"targetId"`
}

type PlanSettlementResponse struct {
	Payments []*Payment `json:"payments"`
	Total    float64    `json:"total"`
}

type SettleRequest struct {
	TargetID string `json:"targetId"`
	Notes    string `json:"notes,omitempty"`
}

type SettleResponse struct {
	Payments []*Payment `json:"payments"`
	Total    float64    `json:"total"`
}

type RecordPaymentRequest struct {
	PayeeID string  `json:"payeeId"`
	Amount  float64 `json:"amount"`
	GroupID string  `json:"groupId,omitempty"`
	Date    int64   `json:"date,omitempty"`
	Notes   string  `json:"notes,omitempty"`
}

type RecordPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type ListPaymentsRequest struct {
	GroupID string `json:"groupId,omitempty"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

type DeletePaymentRequest struct {
	PaymentID string `json:"paymentId"`
}

type RemindRequest struct {
	TargetID string `json:"targetId"`
}

// RemindResponse reports the amount the reminder was sent for.
type RemindResponse struct {
	Amount float64 `json:"amount"`
}
