package store

import "strings"

// AddClient appends a new client. Duplicate names are permitted; the name
// is not a key.
func (s *Store) AddClient(name string) (*Client, error) {
	c := Client{ID: s.nextID(), Name: strings.TrimSpace(name)}
	s.app.Clients = append(s.app.Clients, c)
	return &c, s.saveApp()
}

// UpdateClient renames an existing client. Unknown ids are a no-op.
func (s *Store) UpdateClient(id int64, name string) error {
	for i := range s.app.Clients {
		if s.app.Clients[i].ID == id {
			s.app.Clients[i].Name = strings.TrimSpace(name)
			return s.saveApp()
		}
	}
	return nil
}

// DeleteClient removes a client, every project under it and every focus
// task under those projects. Unknown ids are a no-op.
func (s *Store) DeleteClient(id int64) error {
	found := false
	for _, c := range s.app.Clients {
		if c.ID == id {
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	removed := make(map[int64]bool)
	projects := s.app.Projects[:0]
	for _, p := range s.app.Projects {
		if p.ClientID == id {
			removed[p.ID] = true
			continue
		}
		projects = append(projects, p)
	}
	s.app.Projects = projects

	tasks := s.app.FocusTasks[:0]
	for _, t := range s.app.FocusTasks {
		if removed[t.ProjectID] {
			continue
		}
		tasks = append(tasks, t)
	}
	s.app.FocusTasks = tasks

	clients := s.app.Clients[:0]
	for _, c := range s.app.Clients {
		if c.ID != id {
			clients = append(clients, c)
		}
	}
	s.app.Clients = clients

	return s.saveApp()
}

func (s *Store) Clients() []Client {
	return s.app.Clients
}

func (s *Store) GetClient(id int64) *Client {
	for i := range s.app.Clients {
		if s.app.Clients[i].ID == id {
			return &s.app.Clients[i]
		}
	}
	return nil
}

// findClientByName matches case-insensitively on trimmed names.
func (s *Store) findClientByName(name string) *Client {
	name = strings.TrimSpace(name)
	for i := range s.app.Clients {
		if strings.EqualFold(s.app.Clients[i].Name, name) {
			return &s.app.Clients[i]
		}
	}
	return nil
}
