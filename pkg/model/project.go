package model

import "gorm.io/gorm"

const (
	OrganizationIDPrefix = "org"
	ProjectIDPrefix      = "proj"
	WorkspaceIDPrefix    = "wrk"
)

type Organization struct {
	BaseModel
	Name string `gorm:"not null" json:"name"`
}

func (o *Organization) BeforeCreate(*gorm.DB) error {
	o.ensureID(OrganizationIDPrefix)
	return nil
}

// Project belongs to an organization through ParentID. A project whose
// parent is not a known organization is "untracked".
type Project struct {
	BaseModel
	Name     string `gorm:"not null"           json:"name"`
	ParentID string `gorm:"index;not null"     json:"parentId"`
	RemoteID string `gorm:"type:varchar(64)"   json:"remoteId,omitempty"`
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	p.ensureID(ProjectIDPrefix)
	return nil
}

type WorkspaceScope string

const (
	WorkspaceScopeCollection WorkspaceScope = "collection"
	WorkspaceScopeDesign     WorkspaceScope = "design"
)

type Workspace struct {
	BaseModel
	Name     string         `gorm:"not null"       json:"name"`
	ParentID string         `gorm:"index;not null" json:"parentId"`
	Scope    WorkspaceScope `gorm:"type:varchar(32)" json:"scope"`
}

func (w *Workspace) BeforeCreate(*gorm.DB) error {
	w.ensureID(WorkspaceIDPrefix)
	return nil
}
