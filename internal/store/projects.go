package store

import "strings"

// AddProject appends a project under the given client. clientID 0 puts it
// in the internal bucket.
func (s *Store) AddProject(name string, clientID int64) (*Project, error) {
	p := Project{
		ID:          s.nextID(),
		ClientID:    clientID,
		Name:        strings.TrimSpace(name),
		BillingType: BillingTask,
	}
	s.app.Projects = append(s.app.Projects, p)
	return &p, s.saveApp()
}

// UpdateProjectDetails renames a project. Reassigning the client or billing
// fields goes through UpdateProjectBilling instead.
func (s *Store) UpdateProjectDetails(id int64, name string) error {
	for i := range s.app.Projects {
		if s.app.Projects[i].ID == id {
			s.app.Projects[i].Name = strings.TrimSpace(name)
			return s.saveApp()
		}
	}
	return nil
}

// UpdateProjectBilling patches the billing fields of a project.
func (s *Store) UpdateProjectBilling(id int64, billingType BillingType, retainerValue float64) error {
	for i := range s.app.Projects {
		if s.app.Projects[i].ID == id {
			s.app.Projects[i].BillingType = billingType
			s.app.Projects[i].RetainerValue = retainerValue
			return s.saveApp()
		}
	}
	return nil
}

func (s *Store) Projects() []Project {
	return s.app.Projects
}

func (s *Store) GetProject(id int64) *Project {
	for i := range s.app.Projects {
		if s.app.Projects[i].ID == id {
			return &s.app.Projects[i]
		}
	}
	return nil
}

// ProjectsForClient returns the projects under one client; clientID 0
// selects the internal bucket.
func (s *Store) ProjectsForClient(clientID int64) []Project {
	var out []Project
	for _, p := range s.app.Projects {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	return out
}

// findProjectByName matches case-insensitively on trimmed names, scoped to
// one client bucket.
func (s *Store) findProjectByName(clientID int64, name string) *Project {
	name = strings.TrimSpace(name)
	for i := range s.app.Projects {
		p := &s.app.Projects[i]
		if p.ClientID == clientID && strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}
