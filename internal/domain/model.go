package domain

import "time"

// Core domain models. HTTP payload shapes live in internal/adapters/http and
// convert from these where they differ.

type Role string

const (
	RoleClient Role = "client"
	RoleLawyer Role = "lawyer"
	RoleAdmin  Role = "admin"
)

// Privileged reports whether the role may act on companies it does not own.
func (r Role) Privileged() bool { return r == RoleAdmin || r == RoleLawyer }

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CompanyID    *int64    `json:"company_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type Company struct {
	ID                int64      `json:"id"`
	UserID            int64      `json:"user_id"`
	Name              string     `json:"name"`
	Industry          *string    `json:"industry"`
	EmployeeCount     *int       `json:"employee_count"`
	IncorporationDate *time.Time `json:"incorporation_date"`
	Country           *string    `json:"country"`
	CorporateVehicle  *string    `json:"corporate_vehicle"`
	Website           *string    `json:"website"`
	Domain            *string    `json:"domain"` // registrable domain derived from Website
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CompanyInput carries the mutable company fields for create, update and upsert.
type CompanyInput struct {
	Name              string
	Industry          *string
	EmployeeCount     *int
	IncorporationDate *time.Time
	Country           *string
	CorporateVehicle  *string
	Website           *string
	Domain            *string
}

// Question is one entry of the fixed legal questionnaire. Options[0] means full
// compliance, Options[1] non-compliance and Options[2] partial compliance.
type Question struct {
	ID       int       `json:"id"`
	Category string    `json:"category"`
	Prompt   string    `json:"prompt"`
	Options  [3]string `json:"options"`
	Weight   int       `json:"weight"`
}

type Answer struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Valid reports whether l is one of the three known levels.
func (l RiskLevel) Valid() bool {
	return l == RiskLow || l == RiskMedium || l == RiskHigh
}

type CategoryScore struct {
	Earned int `json:"earned"`
	Max    int `json:"max"`
}

// DiagnosisResult is the pure output of the scoring engine.
type DiagnosisResult struct {
	ComplianceScore int                      `json:"compliance_score"`
	RiskLevel       RiskLevel                `json:"risk_level"`
	CategoryScores  map[string]CategoryScore `json:"category_scores"`
	Earned          int                      `json:"-"`
	Max             int                      `json:"-"`
}

// Diagnosis is a persisted DiagnosisResult. Rows are immutable once created.
type Diagnosis struct {
	ID              int64                    `json:"id"`
	CompanyID       *int64                   `json:"company_id"`
	ComplianceScore int                      `json:"compliance_score"`
	RiskLevel       RiskLevel                `json:"risk_level"`
	CategoryScores  map[string]CategoryScore `json:"category_scores"`
	Answers         []Answer                 `json:"answers"`
	CreatedAt       time.Time                `json:"created_at"`
}

const (
	SourceManual    = "manual"
	SourceDiagnosis = "diagnosis"
)

type RiskStatus string

const (
	RiskOpen      RiskStatus = "open"
	RiskMitigated RiskStatus = "mitigated"
	RiskClosed    RiskStatus = "closed"
)

type Risk struct {
	ID          int64      `json:"id"`
	CompanyID   int64      `json:"company_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Severity    RiskLevel  `json:"severity"`
	Probability string     `json:"probability"`
	Impact      string     `json:"impact"`
	Status      RiskStatus `json:"status"`
	Mitigation  string     `json:"mitigation"`
	Source      string     `json:"source"`
	QuestionID  *int       `json:"question_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// RiskPatch holds optional risk fields; nil fields are left unchanged.
type RiskPatch struct {
	Title       *string
	Description *string
	Category    *string
	Severity    *RiskLevel
	Probability *string
	Impact      *string
	Status      *RiskStatus
	Mitigation  *string
}

type SeverityCount struct {
	Severity RiskLevel `json:"severity"`
	Count    int       `json:"count"`
}

type RiskStats struct {
	Total      int             `json:"total"`
	BySeverity []SeverityCount `json:"by_severity"`
}

type RoadmapStatus string

const (
	RoadmapPending    RoadmapStatus = "pending"
	RoadmapInProgress RoadmapStatus = "in_progress"
	RoadmapCompleted  RoadmapStatus = "completed"
)

type RoadmapItem struct {
	ID          int64         `json:"id"`
	CompanyID   int64         `json:"company_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Priority    RiskLevel     `json:"priority"`
	DueDate     *time.Time    `json:"due_date"`
	Status      RoadmapStatus `json:"status"`
	Source      string        `json:"source"`
	CompletedAt *time.Time    `json:"completed_at"`
	CreatedAt   time.Time     `json:"created_at"`
}

type RoadmapPatch struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *RiskLevel
	DueDate     *time.Time
	Status      *RoadmapStatus
}

type DocumentStatus string

const (
	DocumentQueued    DocumentStatus = "queued"
	DocumentRunning   DocumentStatus = "running"
	DocumentCompleted DocumentStatus = "completed"
	DocumentFailed    DocumentStatus = "failed"
)

type Document struct {
	ID         int64          `json:"id"`
	CompanyID  int64          `json:"company_id"`
	Name       string         `json:"name"`
	Template   string         `json:"template"`
	Type       string         `json:"type"`
	StorageKey string         `json:"-"`
	URL        string         `json:"url"`
	SizeBytes  int64          `json:"size_bytes"`
	Status     DocumentStatus `json:"status"`
	Error      *string        `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type ChatMessage struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Message   string    `json:"message"`
	Sender    string    `json:"sender"` // user|bot
	CreatedAt time.Time `json:"created_at"`
}
