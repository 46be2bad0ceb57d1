package handler

// SubmitInvoiceRequest represents a request to authenticate a new invoice
type SubmitInvoiceRequest struct {
	InvoiceContent string `json:"invoice_content" binding:"required"`
	Owner          string `json:"owner" binding:"required"`
	NotifyPhone    string `json:"notify_phone,omitempty"`
}

// VerifyInvoiceRequest represents a request to verify invoice content
type VerifyInvoiceRequest struct {
	InvoiceContent string `json:"invoice_content" binding:"required"`
}

// MarkPaidRequest represents a request to mark an invoice as paid. The
// invoice is identified by its content, same as verification.
type MarkPaidRequest struct {
	InvoiceContent string `json:"invoice_content" binding:"required"`
}

// RegisterRequest represents a registration request. The password arrives
// pre-hashed; this service never sees plaintext credentials.
type RegisterRequest struct {
	Username     string `json:"username" binding:"required"`
	PasswordHash string `json:"password_hash" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
}

// LoginRequest represents a login request with a pre-hashed password
type LoginRequest struct {
	Username     string `json:"username" binding:"required"`
	PasswordHash string `json:"password_hash" binding:"required"`
}

// SubmissionResponse represents an accepted submission in API responses
type SubmissionResponse struct {
	Fingerprint string `json:"fingerprint"`
	TxRef       string `json:"tx_ref"`
	Status      string `json:"status"`
}

// VerificationResponse represents a verification outcome in API responses
type VerificationResponse struct {
	Status        string `json:"status"`
	Fingerprint   string `json:"fingerprint,omitempty"`
	Submitter     string `json:"submitter,omitempty"`
	TxRef         string `json:"tx_ref,omitempty"`
	AcceptedAt    string `json:"accepted_at,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// RecordResponse represents a mirror record in API responses
type RecordResponse struct {
	Owner       string `json:"owner"`
	Fingerprint string `json:"fingerprint"`
	Status      string `json:"status"`
	TxRef       string `json:"tx_ref"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// UserResponse represents a user account in API responses
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}
