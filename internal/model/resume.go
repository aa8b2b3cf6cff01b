package model

import "time"

// BaseResume is the user's master resume that tailored resumes are generated
// from.
type BaseResume struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Summary    string           `json:"summary,omitempty"`
	Contact    ResumeContact    `json:"contact"`
	Experience []WorkEntry      `json:"experience,omitempty"`
	Education  []EducationEntry `json:"education,omitempty"`
	Skills     []string         `json:"skills,omitempty"`
	Projects   []ResumeProject  `json:"projects,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// ResumeContact is the contact block on a resume.
type ResumeContact struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// ResumeProject is one project entry on a resume.
type ResumeProject struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// GeneratedResume is a tailored resume produced for a specific job. It
// embeds a full snapshot of the base resume it was generated from, so later
// edits to the base never change what was actually sent.
type GeneratedResume struct {
	ID             string     `json:"id"`
	BaseResumeID   string     `json:"baseResumeId"`
	ApplicationID  string     `json:"applicationId,omitempty"`
	Snapshot       BaseResume `json:"snapshot"`
	JobDescription string     `json:"jobDescription,omitempty"`
	Tailoring      Tailoring  `json:"tailoring"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Tailoring records how a generated resume was adjusted for its job.
type Tailoring struct {
	Company          string   `json:"company,omitempty"`
	Position         string   `json:"position,omitempty"`
	EmphasizedSkills []string `json:"emphasizedSkills,omitempty"`
	OmittedSections  []string `json:"omittedSections,omitempty"`
	Notes            string   `json:"notes,omitempty"`
}

// UploadedResume stores a PDF the user uploaded, payload base64-encoded.
// Listings omit the payload; it is only loaded when a single record is
// fetched by ID.
type UploadedResume struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	SizeBytes  int64     `json:"sizeBytes"`
	PayloadB64 string    `json:"payloadB64,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ExtractionFeedback records a user correction to a field extracted from an
// uploaded resume, kept for tuning the extractor.
type ExtractionFeedback struct {
	ID        string    `json:"id"`
	ResumeID  string    `json:"resumeId"`
	Field     string    `json:"field"`
	Extracted string    `json:"extracted"`
	Corrected string    `json:"corrected"`
	CreatedAt time.Time `json:"createdAt"`
}
