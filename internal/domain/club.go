package domain

// Coordinator is a club-wide coordinator shown on the team page
type Coordinator struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Role     string `json:"role" yaml:"role"`
	Image    string `json:"image" yaml:"image"`
	Bio      string `json:"bio" yaml:"bio"`
	LinkedIn string `json:"linkedin" yaml:"linkedin"`
}

func (c Coordinator) GetID() int   { return c.ID }
func (c *Coordinator) SetID(id int) { c.ID = id }

// ClubCoordinator is a coordinator embedded in a single club
type ClubCoordinator struct {
	Name     string `json:"name" yaml:"name"`
	Role     string `json:"role" yaml:"role"`
	Image    string `json:"image" yaml:"image"`
	IsMain   bool   `json:"isMain" yaml:"isMain"`
	Bio      string `json:"bio,omitempty" yaml:"bio,omitempty"`
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
}

// ClubProject is a showcase project of a club
type ClubProject struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	GitHub      string `json:"github,omitempty" yaml:"github,omitempty"`
}

// Club is one sub-club of the university club
type Club struct {
	ID           int               `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	Icon         string            `json:"icon" yaml:"icon"`
	Description  string            `json:"description" yaml:"description"`
	Objectives   []string          `json:"objectives" yaml:"objectives"`
	ExtraInfo    string            `json:"extraInfo,omitempty" yaml:"extraInfo,omitempty"`
	Coordinators []ClubCoordinator `json:"coordinators" yaml:"coordinators"`
	Projects     []ClubProject     `json:"projects" yaml:"projects"`
	Gallery      []string          `json:"gallery" yaml:"gallery"`
}

func (c Club) GetID() int   { return c.ID }
func (c *Club) SetID(id int) { c.ID = id }
