package clubapi

import (
	"time"

	"github.com/aussiebroadwan/clubhouse/pkg/money"
)

// DateLayout is the wire form of calendar dates.
const DateLayout = "2006-01-02"

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the readiness of critical dependencies.
type HealthChecks struct {
	Database    string `json:"database"`
	SigningKeys string `json:"signing_keys"`
}

// ============================================================================
// Sessions and bootstrap
// ============================================================================

// BootstrapRequest creates the first superuser.
type BootstrapRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type BootstrapResponse struct {
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
}

type SessionRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse carries a bearer token for the Authorization header.
type SessionResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	AccountID   string `json:"account_id"`
}

// AcceptInvitationRequest activates an invited account.
type AcceptInvitationRequest struct {
	Token      string `json:"token"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
}

// ============================================================================
// Members
// ============================================================================

type Member struct {
	AccountID         string    `json:"account_id"`
	ProfileID         string    `json:"profile_id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	FirstName         string    `json:"first_name"`
	MiddleName        string    `json:"middle_name,omitempty"`
	LastName          string    `json:"last_name"`
	FullName          string    `json:"full_name"`
	Role              string    `json:"role"`
	Status            string    `json:"status"`
	StatusLabel       string    `json:"status_label"`
	Active            bool      `json:"active"`
	Superuser         bool      `json:"superuser,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	Address           string    `json:"address,omitempty"`
	City              string    `json:"city,omitempty"`
	Country           string    `json:"country,omitempty"`
	InvitationPending bool      `json:"invitation_pending"`
	CreatedAt         time.Time `json:"created_at"`
}

// Totals is a member's ledger position. A positive balance is owed.
type Totals struct {
	TotalDues       money.Amount `json:"total_dues"`
	TotalPayments   money.Amount `json:"total_payments"`
	Balance         money.Amount `json:"balance"`
	UpToDate        bool         `json:"up_to_date"`
	FinancialStatus string       `json:"financial_status"`
}

// RosterEntry is one row of GET /v1/members.
type RosterEntry struct {
	Member
	Totals Totals `json:"totals"`
}

type CreateMemberRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Role       string `json:"role,omitempty"`
	SendInvite bool   `json:"send_invite"`
}

type CreateMemberResponse struct {
	Member     Member      `json:"member"`
	Invitation *Invitation `json:"invitation,omitempty"`
}

// ProfileUpdateRequest is a partial edit; omitted fields are left alone.
type ProfileUpdateRequest struct {
	FirstName  *string `json:"first_name,omitempty"`
	MiddleName *string `json:"middle_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	Country    *string `json:"country,omitempty"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type RoleRequest struct {
	Role string `json:"role"`
}

type AccessResponse struct {
	Active bool `json:"active"`
}

// WarningResponse reports an operation that succeeded with a non-fatal
// problem, e.g. a notification that could not be delivered.
type WarningResponse struct {
	Warning string `json:"warning,omitempty"`
}

// Invitation describes an issued invitation. The token itself is only ever
// delivered to the invitee.
type Invitation struct {
	ProfileID string    `json:"profile_id"`
	Email     string    `json:"email"`
	SentAt    time.Time `json:"sent_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Warning   string    `json:"warning,omitempty"`
}

type BulkInviteRequest struct {
	Emails []string `json:"emails"`
}

// BatchItem is the outcome of one input of a batch operation.
type BatchItem struct {
	Index     int    `json:"index"`
	Input     string `json:"input"`
	AccountID string `json:"account_id,omitempty"`
	Error     string `json:"error,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

type BatchResponse struct {
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Items     []BatchItem `json:"items"`
}

// ============================================================================
// Ledger
// ============================================================================

type PaymentRequest struct {
	ProfileID   string       `json:"profile_id"`
	Amount      money.Amount `json:"amount"`
	PaymentDate string       `json:"payment_date,omitempty"`
	Notes       string       `json:"notes,omitempty"`
}

type Payment struct {
	ID          string       `json:"id"`
	ProfileID   string       `json:"profile_id"`
	Amount      money.Amount `json:"amount"`
	PaymentDate string       `json:"payment_date"`
	Notes       string       `json:"notes,omitempty"`
	RecordedBy  string       `json:"recorded_by,omitempty"`
	RecordedAt  time.Time    `json:"recorded_at"`
}

type DueRequest struct {
	ProfileID   string       `json:"profile_id"`
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description"`
	DueDate     string       `json:"due_date"`
}

type BulkDueRequest struct {
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description"`
	DueDate     string       `json:"due_date"`
}

type BulkDueResponse struct {
	Created int `json:"created"`
}

type Due struct {
	ID          string       `json:"id"`
	ProfileID   string       `json:"profile_id"`
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description"`
	DueDate     string       `json:"due_date"`
	CreatedAt   time.Time    `json:"created_at"`
}

// FinancialStatus is a member's totals plus every ledger entry.
type FinancialStatus struct {
	Member   Member    `json:"member"`
	Totals   Totals    `json:"totals"`
	Dues     []Due     `json:"dues"`
	Payments []Payment `json:"payments"`
}

// ============================================================================
// Reports
// ============================================================================

type ReportRow struct {
	AccountID string `json:"account_id"`
	ProfileID string `json:"profile_id"`
	FullName  string `json:"full_name"`
	Status    string `json:"status"`
	Totals    Totals `json:"totals"`
}

type ReportSummary struct {
	TotalDues     money.Amount `json:"total_dues"`
	TotalPayments money.Amount `json:"total_payments"`
	TotalBalance  money.Amount `json:"total_balance"`
	UpToDateCount int          `json:"up_to_date_count"`
	MemberCount   int          `json:"member_count"`
}

type FinancialReport struct {
	Filter      string        `json:"filter"`
	GeneratedAt time.Time     `json:"generated_at"`
	Rows        []ReportRow   `json:"rows"`
	Summary     ReportSummary `json:"summary"`
}

// ============================================================================
// Gallery and announcements
// ============================================================================

type EventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Published   bool   `json:"published"`
}

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date"`
	Location    string    `json:"location"`
	Published   bool      `json:"published"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type EventDetail struct {
	Event
	Photos []Photo `json:"photos"`
}

type PhotoRequest struct {
	ImagePath string `json:"image_path"`
	Caption   string `json:"caption,omitempty"`
	Featured  bool   `json:"featured"`
}

type Photo struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	ImagePath  string    `json:"image_path"`
	Caption    string    `json:"caption,omitempty"`
	Featured   bool      `json:"featured"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// AnnouncementRequest omitting publish_date publishes now; omitting
// published means true.
type AnnouncementRequest struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
	Published   *bool      `json:"published,omitempty"`
}

type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PublishDate time.Time `json:"publish_date"`
	Published   bool      `json:"published"`
	AuthorID    string    `json:"author_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type PublishedRequest struct {
	Published bool `json:"published"`
}
