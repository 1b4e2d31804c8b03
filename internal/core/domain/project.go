package domain

import "time"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectDraft       ProjectStatus = "draft"
	ProjectInProgress  ProjectStatus = "in_progress"
	ProjectUnderReview ProjectStatus = "under_review"
	ProjectSubmitted   ProjectStatus = "submitted"
	ProjectApproved    ProjectStatus = "approved"
	ProjectRejected    ProjectStatus = "rejected"
	ProjectCompleted   ProjectStatus = "completed"
	ProjectArchived    ProjectStatus = "archived"
)

var projectStatuses = map[ProjectStatus]struct{}{
	ProjectDraft: {}, ProjectInProgress: {}, ProjectUnderReview: {}, ProjectSubmitted: {},
	ProjectApproved: {}, ProjectRejected: {}, ProjectCompleted: {}, ProjectArchived: {},
}

// Valid reports whether s is a known status.
func (s ProjectStatus) Valid() bool {
	_, ok := projectStatuses[s]
	return ok
}

// ProjectType classifies the legal matter a project covers.
type ProjectType string

const (
	ProjectTrademarkApplication  ProjectType = "trademark_application"
	ProjectPatentApplication     ProjectType = "patent_application"
	ProjectCopyrightRegistration ProjectType = "copyright_registration"
	ProjectIPConsultation        ProjectType = "ip_consultation"
	ProjectOther                 ProjectType = "other"
)

func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTrademarkApplication, ProjectPatentApplication, ProjectCopyrightRegistration,
		ProjectIPConsultation, ProjectOther:
		return true
	}
	return false
}

const (
	ProjectNameMin = 2
	ProjectNameMax = 200
)

// Project is an IP-law matter for one of the owner's clients.
type Project struct {
	Ownership             `bson:",inline"`
	Name                  string        `json:"name" bson:"name"`
	Description           string        `json:"description,omitempty" bson:"description,omitempty"`
	Type                  ProjectType   `json:"type" bson:"type"`
	Status                ProjectStatus `json:"status" bson:"status"`
	DueDate               *time.Time    `json:"dueDate,omitempty" bson:"due_date,omitempty"`
	ReferenceNumber       string        `json:"referenceNumber,omitempty" bson:"reference_number,omitempty"`
	ClientID              string        `json:"clientId" bson:"client_id"`
	TrademarkName         string        `json:"trademarkName,omitempty" bson:"trademark_name,omitempty"`
	TrademarkDescription  string        `json:"trademarkDescription,omitempty" bson:"trademark_description,omitempty"`
	GoodsAndServices      string        `json:"goodsAndServices,omitempty" bson:"goods_and_services,omitempty"`
	SpecialConsiderations string        `json:"specialConsiderations,omitempty" bson:"special_considerations,omitempty"`
}

// ProjectDetail is a project together with the client it belongs to.
type ProjectDetail struct {
	*Project
	Client *Client `json:"client,omitempty"`
}
