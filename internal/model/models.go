package model

import "time"

// Application statuses, in pipeline order where applicable.
const (
	StatusSaved     = "saved"
	StatusApplied   = "applied"
	StatusScreening = "screening"
	StatusInterview = "interview"
	StatusOffer     = "offer"
	StatusRejected  = "rejected"
	StatusWithdrawn = "withdrawn"
)

// AllStatuses is the set of valid application statuses.
var AllStatuses = []string{
	StatusSaved,
	StatusApplied,
	StatusScreening,
	StatusInterview,
	StatusOffer,
	StatusRejected,
	StatusWithdrawn,
}

// FunnelStages are the pipeline stages counted by the cumulative funnel.
// Terminal statuses (rejected, withdrawn) are not stages.
var FunnelStages = []string{
	StatusSaved,
	StatusApplied,
	StatusScreening,
	StatusInterview,
	StatusOffer,
}

// ValidStatus reports whether s is a recognized application status.
func ValidStatus(s string) bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Contact types.
const (
	ContactRecruiter     = "recruiter"
	ContactHiringManager = "hiring_manager"
	ContactReferral      = "referral"
	ContactNetworking    = "networking"
	ContactOther         = "other"
)

// Contact sources.
const (
	SourceLinkedIn = "linkedin"
	SourceEmail    = "email"
	SourceReferral = "referral"
	SourceJobBoard = "job_board"
	SourceEvent    = "event"
	SourceOther    = "other"
)

// Communication types and directions.
const (
	CommEmail    = "email"
	CommCall     = "call"
	CommLinkedIn = "linkedin"
	CommMeeting  = "meeting"
	CommOther    = "other"

	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Interview outcome canonical default. Legacy data may carry capitalized
// outcomes; compare case-insensitively.
const OutcomePending = "pending"

// Application priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Meta carries record bookkeeping shared by tracker entities.
type Meta struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int       `json:"version"`
}

// StatusChange is one entry in an application's append-only status history.
type StatusChange struct {
	Status string    `json:"status"`
	Date   time.Time `json:"date"`
	Notes  string    `json:"notes,omitempty"`
}

// Application is one job application record, the aggregate root of the data
// model. Interviews, tasks, activities and communications reference it by
// ApplicationID; deleting an application cascades to all of them.
type Application struct {
	ID              string         `json:"id"`
	Company         string         `json:"company"`
	Position        string         `json:"position"`
	JobURL          string         `json:"jobUrl,omitempty"`
	Platform        string         `json:"platform,omitempty"`
	Status          string         `json:"status"`
	DateApplied     time.Time      `json:"dateApplied"`
	Deadline        *time.Time     `json:"deadline,omitempty"`
	DeadlineAlert   bool           `json:"deadlineAlert"`
	Tags            []string       `json:"tags"`
	Priority        string         `json:"priority"`
	ReferredBy      string         `json:"referredBy,omitempty"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
	ResumeVersion   string         `json:"resumeVersion,omitempty"`
	LastContacted   *time.Time     `json:"lastContacted,omitempty"`
	CompanyNotes    string         `json:"companyNotes,omitempty"`
	Contacts        []string       `json:"contacts,omitempty"`
	StatusHistory   []StatusChange `json:"statusHistory"`
	Meta            Meta           `json:"meta"`
}

// CurrentStatus returns the application's status, defaulting to "applied"
// for records that predate the status field.
func (a *Application) CurrentStatus() string {
	if a.Status == "" {
		return StatusApplied
	}
	return a.Status
}

// Contact is an independent root: deleting a contact does not cascade to its
// communications. Callers that want a clean delete remove those first.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Title     string    `json:"title,omitempty"`
	LinkedIn  string    `json:"linkedin,omitempty"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Agency    string    `json:"agency,omitempty"`
	Tags      []string  `json:"tags"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Communication is a logged touchpoint with a contact, optionally tied to an
// application.
type Communication struct {
	ID            string     `json:"id"`
	ContactID     string     `json:"contactId"`
	ApplicationID string     `json:"applicationId,omitempty"`
	Type          string     `json:"type"`
	Direction     string     `json:"direction"`
	Date          time.Time  `json:"date"`
	FollowUpDate  *time.Time `json:"followUpDate,omitempty"`
	Subject       string     `json:"subject,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Interview is one interview round for an application.
type Interview struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Round         int       `json:"round"`
	Type          string    `json:"type,omitempty"`
	ScheduledDate time.Time `json:"scheduledDate"`
	Outcome       string    `json:"outcome"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Task is a to-do item, optionally tied to an application. CompletedAt is
// set exactly once, on the false→true transition of Completed.
type Task struct {
	ID            string     `json:"id"`
	ApplicationID string     `json:"applicationId,omitempty"`
	Title         string     `json:"title"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	ReminderDate  *time.Time `json:"reminderDate,omitempty"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Activity is an append-only audit-trail entry written as a side effect of
// lifecycle events. It is observational only, never a source of truth.
type Activity struct {
	ID            string            `json:"id"`
	ApplicationID string            `json:"applicationId"`
	Type          string            `json:"type"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

// Activity types written by the lifecycle manager.
const (
	ActivityApplicationAdded = "application_added"
	ActivityStatusChanged    = "status_changed"
	ActivityNoteAdded        = "note_added"
)

// WorkEntry is one position in the profile's work history.
type WorkEntry struct {
	Company     string     `json:"company"`
	Title       string     `json:"title"`
	Location    string     `json:"location,omitempty"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Description string     `json:"description,omitempty"`
	Highlights  []string   `json:"highlights,omitempty"`
}

// EducationEntry is one school in the profile's education history.
type EducationEntry struct {
	School    string     `json:"school"`
	Degree    string     `json:"degree,omitempty"`
	Field     string     `json:"field,omitempty"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// Certification is one professional certification on the profile.
type Certification struct {
	Name   string     `json:"name"`
	Issuer string     `json:"issuer,omitempty"`
	Date   *time.Time `json:"date,omitempty"`
	URL    string     `json:"url,omitempty"`
}

// Profile is the singleton personal profile, stored with ID "main".
type Profile struct {
	ID             string            `json:"id"`
	FullName       string            `json:"fullName,omitempty"`
	Email          string            `json:"email,omitempty"`
	Phone          string            `json:"phone,omitempty"`
	Location       string            `json:"location,omitempty"`
	Summary        string            `json:"summary,omitempty"`
	WorkHistory    []WorkEntry       `json:"workHistory,omitempty"`
	Education      []EducationEntry  `json:"education,omitempty"`
	Skills         []string          `json:"skills,omitempty"`
	Certifications []Certification   `json:"certifications,omitempty"`
	Links          map[string]string `json:"links,omitempty"`
	CoverLetters   map[string]string `json:"coverLetters,omitempty"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// SingletonID keys the profile and settings documents.
const SingletonID = "main"
