package migrate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/thand-io/rbac-migrate/internal/client"
	"github.com/thand-io/rbac-migrate/internal/config"
	"github.com/thand-io/rbac-migrate/internal/models"
)

const testOrg = "org-1"

// fakeAPI is an in-memory stand-in for both API surfaces: the legacy
// groups endpoints and the v4 RBAC endpoints. Creates enforce name
// uniqueness and answer 409 on duplicates, matching the real API.
type fakeAPI struct {
	t *testing.T

	mu             sync.Mutex
	groupsBody     string
	details        map[int64]*models.GroupDetails
	resourceGroups []models.ResourceGroup
	roles          []models.Role
	uags           []models.UserAccessGroup
	nextID         int

	// failRoleCreate names roles whose create should 500
	failRoleCreate map[string]bool

	// requests records "METHOD path" for every call received
	requests []string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	return &fakeAPI{
		t:          t,
		groupsBody: `{"custom_groups":{},"predefined_groups":{}}`,
		details:    make(map[int64]*models.GroupDetails),
	}
}

func (f *fakeAPI) start() (*httptest.Server, *client.Client) {
	server := httptest.NewServer(f)
	f.t.Cleanup(server.Close)

	cfg := &config.Config{
		API: config.APIConfig{
			Key:     "test-key",
			BaseURL: server.URL,
			Auth:    "test-auth",
			Org:     testOrg,
		},
	}

	return server, client.New(cfg)
}

func (f *fakeAPI) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	legacyBase := fmt.Sprintf("/Contrast/api/ng/%s", testOrg)
	v4Base := fmt.Sprintf("/api/v4/organizations/%s", testOrg)

	path := r.URL.Path
	switch {
	case path == legacyBase+"/groups":
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, f.groupsBody)

	case strings.HasPrefix(path, legacyBase+"/groups/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(path, legacyBase+"/groups/"), 10, 64)
		details, ok := f.details[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, details)

	case strings.HasPrefix(path, v4Base+"/resource-groups"):
		f.serveResourceGroups(w, r, strings.TrimPrefix(path, v4Base+"/resource-groups"))

	case path == v4Base+"/actions":
		writeJSON(w, http.StatusOK, []string{"APPLICATION_VIEW", "APPLICATION_EDIT", "APPLICATION_MANAGE"})

	case strings.HasPrefix(path, v4Base+"/roles"):
		f.serveRoles(w, r, strings.TrimPrefix(path, v4Base+"/roles"))

	case strings.HasPrefix(path, v4Base+"/user-access-groups"):
		f.serveUAGs(w, r, strings.TrimPrefix(path, v4Base+"/user-access-groups"))

	default:
		f.t.Errorf("unexpected request: %s %s", r.Method, path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAPI) serveResourceGroups(w http.ResponseWriter, r *http.Request, rest string) {
	switch {
	case r.Method == http.MethodGet && rest == "":
		filter := r.URL.Query().Get("nameFilter")
		var matched []models.ResourceGroup
		for _, rg := range f.resourceGroups {
			if strings.Contains(rg.Name, filter) {
				matched = append(matched, rg)
			}
		}
		writeJSON(w, http.StatusOK, models.Page[models.ResourceGroup]{Content: matched})

	case r.Method == http.MethodPost && rest == "":
		var req models.CreateResourceGroupRequest
		decodeJSON(f.t, r, &req)
		for _, rg := range f.resourceGroups {
			if rg.Name == req.Name {
				w.WriteHeader(http.StatusConflict)
				return
			}
		}
		rg := models.ResourceGroup{
			ID:            f.newID("rg"),
			Name:          req.Name,
			Description:   req.Description,
			ResourceIDMap: req.ResourceIDMap,
		}
		f.resourceGroups = append(f.resourceGroups, rg)
		writeJSON(w, http.StatusCreated, rg)

	case r.Method == http.MethodDelete && strings.HasPrefix(rest, "/"):
		id := strings.TrimPrefix(rest, "/")
		for i, rg := range f.resourceGroups {
			if rg.ID == id {
				f.resourceGroups = append(f.resourceGroups[:i], f.resourceGroups[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeAPI) serveRoles(w http.ResponseWriter, r *http.Request, rest string) {
	switch {
	case r.Method == http.MethodGet && rest == "":
		filter := r.URL.Query().Get("nameFilter")
		var matched []models.Role
		for _, role := range f.roles {
			if strings.Contains(role.Name, filter) {
				matched = append(matched, role)
			}
		}
		writeJSON(w, http.StatusOK, models.Page[models.Role]{Content: matched})

	case r.Method == http.MethodPost && rest == "":
		var req models.CreateRoleRequest
		decodeJSON(f.t, r, &req)
		if f.failRoleCreate[req.Name] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		for _, role := range f.roles {
			if role.Name == req.Name {
				w.WriteHeader(http.StatusConflict)
				return
			}
		}
		role := models.Role{
			ID:               f.newID("role"),
			Name:             req.Name,
			Description:      req.Description,
			Actions:          req.Actions,
			ResourceGroupIDs: req.ResourceGroupIDs,
		}
		f.roles = append(f.roles, role)
		writeJSON(w, http.StatusCreated, role)

	case r.Method == http.MethodDelete && strings.HasPrefix(rest, "/"):
		id := strings.TrimPrefix(rest, "/")
		for i, role := range f.roles {
			if role.ID == id {
				f.roles = append(f.roles[:i], f.roles[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeAPI) serveUAGs(w http.ResponseWriter, r *http.Request, rest string) {
	switch {
	case r.Method == http.MethodGet && rest == "":
		filter := r.URL.Query().Get("nameFilter")
		var matched []models.UserAccessGroup
		for _, uag := range f.uags {
			if strings.Contains(uag.Name, filter) {
				matched = append(matched, uag)
			}
		}
		writeJSON(w, http.StatusOK, models.Page[models.UserAccessGroup]{Content: matched})

	case r.Method == http.MethodPost && rest == "":
		var req models.CreateUserAccessGroupRequest
		decodeJSON(f.t, r, &req)
		for _, uag := range f.uags {
			if uag.Name == req.Name {
				w.WriteHeader(http.StatusConflict)
				return
			}
		}
		uag := models.UserAccessGroup{
			ID:          f.newID("uag"),
			Name:        req.Name,
			Description: req.Description,
			RoleIDs:     req.RoleIDs,
			UserIDs:     req.UserIDs,
		}
		f.uags = append(f.uags, uag)
		writeJSON(w, http.StatusCreated, uag)

	case r.Method == http.MethodPut && strings.HasPrefix(rest, "/"):
		id := strings.TrimPrefix(rest, "/")
		var req models.UpdateUserAccessGroupRequest
		decodeJSON(f.t, r, &req)
		for i := range f.uags {
			if f.uags[i].ID == id {
				f.uags[i].Name = req.Name
				f.uags[i].Description = req.Description
				f.uags[i].RoleIDs = req.RoleIDs
				f.uags[i].UserIDs = req.UserIDs
				writeJSON(w, http.StatusOK, f.uags[i])
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)

	case r.Method == http.MethodDelete && strings.HasPrefix(rest, "/"):
		id := strings.TrimPrefix(rest, "/")
		for i, uag := range f.uags {
			if uag.ID == id {
				f.uags = append(f.uags[:i], f.uags[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeAPI) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func decodeJSON(t *testing.T, r *http.Request, out any) {
	// Errorf, not Fatalf: this runs on the server goroutine
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		t.Errorf("failed to decode request body: %v", err)
	}
}
