package assets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	fakeUser     = "tester"
	fakePassword = "secret"
)

// recordedRequest is what the fake service saw for one call.
type recordedRequest struct {
	Path     string
	Query    url.Values
	Auth     string
	FileName string
	FileBody []byte
}

type fakeAsset struct {
	ID       string
	Metadata map[string]any
}

type fakeRelation struct {
	ID   string
	Type string
	T1   string
	T2   string
}

// fakeService is an in-memory stand-in for the Assets Server REST API.
type fakeService struct {
	t   *testing.T
	srv *httptest.Server

	mu            sync.Mutex
	token         string
	logins        int
	seq           int
	assets        map[string]*fakeAsset
	relations     map[string]fakeRelation
	requests      []recordedRequest
	logoutSuccess bool
	// overrides short-circuit a path with a fixed status and body.
	overrides map[string]fakeOverride
}

type fakeOverride struct {
	status int
	body   string
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	f := &fakeService{
		t:             t,
		assets:        make(map[string]*fakeAsset),
		relations:     make(map[string]fakeRelation),
		overrides:     make(map[string]fakeOverride),
		logoutSuccess: true,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/services/apilogin", f.handleLogin)
	mux.HandleFunc("/services/search", f.authed(f.handleSearch))
	mux.HandleFunc("/services/browse", f.authed(f.handleBrowse))
	mux.HandleFunc("/services/create", f.authed(f.handleCreate))
	mux.HandleFunc("/services/update", f.authed(f.handleUpdate))
	mux.HandleFunc("/services/updatebulk", f.authed(f.handleUpdateBulk))
	mux.HandleFunc("/services/remove", f.authed(f.handleRemove))
	mux.HandleFunc("/services/move", f.authed(f.handleMove))
	mux.HandleFunc("/services/createRelation", f.authed(f.handleCreateRelation))
	mux.HandleFunc("/services/removeRelation", f.authed(f.handleRemoveRelation))
	mux.HandleFunc("/services/checkout/", f.authed(f.handleCheckout))
	mux.HandleFunc("/services/undocheckout/", f.authed(f.handleUndoCheckout))
	mux.HandleFunc("/services/createAuthKey", f.authed(f.handleCreateAuthKey))
	mux.HandleFunc("/services/logout", f.authed(f.handleLogout))

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeService) credentials() Credentials {
	return Credentials{Endpoint: f.srv.URL, Username: fakeUser, Password: fakePassword}
}

// override makes path answer with status and body instead of its handler.
func (f *fakeService) override(path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides["/services/"+path] = fakeOverride{status: status, body: body}
}

func (f *fakeService) lastRequest(path string) (recordedRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Path == "/services/"+path {
			return f.requests[i], true
		}
	}
	return recordedRequest{}, false
}

func (f *fakeService) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeService) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"errorcode": 405})
		return
	}
	q := r.URL.Query()
	f.mu.Lock()
	defer f.mu.Unlock()
	if q.Get("username") != fakeUser || q.Get("password") != fakePassword {
		writeJSON(w, http.StatusOK, map[string]any{
			"loginSuccess":      false,
			"loginFaultMessage": "Invalid username or password",
		})
		return
	}
	f.logins++
	f.token = fmt.Sprintf("token-%d", f.logins)
	writeJSON(w, http.StatusOK, map[string]any{
		"loginSuccess": true,
		"authToken":    f.token,
	})
}

// authed records the request and enforces POST plus a valid bearer token.
func (f *fakeService) authed(next func(http.ResponseWriter, *http.Request, url.Values)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Path:  r.URL.Path,
			Query: r.URL.Query(),
			Auth:  r.Header.Get("Authorization"),
		}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				f.t.Errorf("parse multipart: %v", err)
			}
			if file, header, err := r.FormFile(fileField); err == nil {
				rec.FileName = header.Filename
				rec.FileBody, _ = io.ReadAll(file)
				file.Close()
			}
		}

		f.mu.Lock()
		f.requests = append(f.requests, rec)
		ov, overridden := f.overrides[r.URL.Path]
		token := f.token
		f.mu.Unlock()

		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"errorcode": 405})
			return
		}
		if token == "" || rec.Auth != "Bearer "+token {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"errorcode": 401, "message": "Not logged in"})
			return
		}
		if overridden {
			w.WriteHeader(ov.status)
			_, _ = io.WriteString(w, ov.body)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		next(w, r, rec.Query)
	}
}

func (f *fakeService) handleSearch(w http.ResponseWriter, _ *http.Request, q url.Values) {
	query := q.Get("q")
	hits := make([]map[string]any, 0)
	switch {
	case strings.HasPrefix(query, "id:"):
		if a, ok := f.assets[strings.TrimPrefix(query, "id:")]; ok {
			hits = append(hits, hitJSON(a, nil))
		}
	case strings.HasPrefix(query, "relatedTo:"):
		id := strings.TrimPrefix(query, "relatedTo:")
		for _, rel := range f.sortedRelations() {
			other := ""
			switch id {
			case rel.T1:
				other = rel.T2
			case rel.T2:
				other = rel.T1
			}
			if a, ok := f.assets[other]; ok {
				hits = append(hits, hitJSON(a, &rel))
			}
		}
	default:
		for _, id := range f.sortedIDs() {
			hits = append(hits, hitJSON(f.assets[id], nil))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"firstResult":   0,
		"maxResultHits": 50,
		"totalHits":     len(hits),
		"hits":          hits,
	})
}

func (f *fakeService) handleBrowse(w http.ResponseWriter, _ *http.Request, q url.Values) {
	path := q.Get("path")
	writeJSON(w, http.StatusOK, []map[string]any{
		{"assetPath": strings.TrimRight(path, "/") + "/Demo", "name": "Demo", "directory": true},
		{"assetPath": strings.TrimRight(path, "/") + "/Board.collection", "name": "Board.collection", "directory": false, "extension": "collection"},
	})
}

func (f *fakeService) handleCreate(w http.ResponseWriter, r *http.Request, q url.Values) {
	rec := f.requests[len(f.requests)-1]
	if rec.FileName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errorcode": 400, "message": "Filedata missing"})
		return
	}
	f.seq++
	a := &fakeAsset{ID: fmt.Sprintf("asset-%d", f.seq), Metadata: map[string]any{}}
	mergeMetadata(a.Metadata, q.Get("metadata"))
	a.Metadata["assetPath"] = strings.TrimRight(q.Get("folderPath"), "/") + "/" + rec.FileName
	a.Metadata["filename"] = rec.FileName
	f.assets[a.ID] = a
	writeJSON(w, http.StatusOK, hitJSON(a, nil))
}

func (f *fakeService) handleUpdate(w http.ResponseWriter, _ *http.Request, q url.Values) {
	a, ok := f.assets[q.Get("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"errorcode": 404, "message": "Asset not found"})
		return
	}
	mergeMetadata(a.Metadata, q.Get("metadata"))
	if rec := f.requests[len(f.requests)-1]; rec.FileName != "" {
		a.Metadata["fileSize"] = fmt.Sprint(len(rec.FileBody))
	}
	writeJSON(w, http.StatusOK, hitJSON(a, nil))
}

func (f *fakeService) handleUpdateBulk(w http.ResponseWriter, _ *http.Request, q url.Values) {
	if q.Get("async") == "true" {
		writeJSON(w, http.StatusOK, map[string]any{"processId": "process-bulk"})
		return
	}
	matched := f.match(q.Get("q"))
	for _, a := range matched {
		mergeMetadata(a.Metadata, q.Get("metadata"))
	}
	writeJSON(w, http.StatusOK, map[string]any{"processedCount": len(matched), "errorCount": 0})
}

func (f *fakeService) handleRemove(w http.ResponseWriter, _ *http.Request, q url.Values) {
	if q.Get("async") == "true" {
		writeJSON(w, http.StatusOK, map[string]any{"processId": "process-remove"})
		return
	}
	var targets []*fakeAsset
	if ids := q.Get("ids"); ids != "" {
		for _, id := range strings.Split(ids, ",") {
			if a, ok := f.assets[id]; ok {
				targets = append(targets, a)
			}
		}
	}
	if query := q.Get("q"); query != "" {
		targets = append(targets, f.match(query)...)
	}
	if folder := q.Get("folderPath"); folder != "" {
		for _, a := range f.assets {
			if strings.HasPrefix(fmt.Sprint(a.Metadata["assetPath"]), strings.TrimRight(folder, "/")+"/") {
				targets = append(targets, a)
			}
		}
	}
	for _, a := range targets {
		delete(f.assets, a.ID)
	}
	writeJSON(w, http.StatusOK, map[string]any{"processedCount": len(targets), "errorCount": 0})
}

func (f *fakeService) handleMove(w http.ResponseWriter, _ *http.Request, q url.Values) {
	processed := 0
	for _, a := range f.assets {
		if a.Metadata["assetPath"] == q.Get("source") {
			a.Metadata["assetPath"] = q.Get("target")
			processed++
		}
	}
	errCount := 0
	if processed == 0 {
		errCount = 1
	}
	writeJSON(w, http.StatusOK, map[string]any{"processedCount": processed, "errorCount": errCount})
}

func (f *fakeService) handleCreateRelation(w http.ResponseWriter, _ *http.Request, q url.Values) {
	f.seq++
	rel := fakeRelation{
		ID:   fmt.Sprintf("relation-%d", f.seq),
		Type: q.Get("relationType"),
		T1:   q.Get("target1Id"),
		T2:   q.Get("target2Id"),
	}
	f.relations[rel.ID] = rel
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (f *fakeService) handleRemoveRelation(w http.ResponseWriter, _ *http.Request, q url.Values) {
	processed, failed := 0, 0
	for _, id := range strings.Split(q.Get("relationIds"), ",") {
		if _, ok := f.relations[id]; ok {
			delete(f.relations, id)
			processed++
		} else if id != "" {
			failed++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"processedCount": processed, "errorCount": failed})
}

func (f *fakeService) handleCheckout(w http.ResponseWriter, r *http.Request, _ url.Values) {
	a, ok := f.assets[strings.TrimPrefix(r.URL.Path, "/services/checkout/")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"errorcode": 404, "message": "Asset not found"})
		return
	}
	now := time.Now().UnixMilli()
	a.Metadata["checkedOut"] = now
	a.Metadata["checkedOutBy"] = fakeUser
	writeJSON(w, http.StatusOK, map[string]any{"checkedOut": now, "checkedOutBy": fakeUser})
}

func (f *fakeService) handleUndoCheckout(w http.ResponseWriter, r *http.Request, _ url.Values) {
	a, ok := f.assets[strings.TrimPrefix(r.URL.Path, "/services/undocheckout/")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"errorcode": 404, "message": "Asset not found"})
		return
	}
	delete(a.Metadata, "checkedOut")
	delete(a.Metadata, "checkedOutBy")
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (f *fakeService) handleCreateAuthKey(w http.ResponseWriter, _ *http.Request, q url.Values) {
	writeJSON(w, http.StatusOK, map[string]any{"authKey": "key-" + q.Get("subject")})
}

func (f *fakeService) handleLogout(w http.ResponseWriter, _ *http.Request, _ url.Values) {
	f.token = ""
	writeJSON(w, http.StatusOK, map[string]any{"logoutSuccess": f.logoutSuccess})
}

// match supports the "id:<id>" queries the tests use.
func (f *fakeService) match(query string) []*fakeAsset {
	if a, ok := f.assets[strings.TrimPrefix(query, "id:")]; ok && strings.HasPrefix(query, "id:") {
		return []*fakeAsset{a}
	}
	return nil
}

func (f *fakeService) sortedIDs() []string {
	ids := make([]string, 0, len(f.assets))
	for id := range f.assets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (f *fakeService) sortedRelations() []fakeRelation {
	out := make([]fakeRelation, 0, len(f.relations))
	for _, rel := range f.relations {
		out = append(out, rel)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func hitJSON(a *fakeAsset, rel *fakeRelation) map[string]any {
	md := make(map[string]any, len(a.Metadata))
	for k, v := range a.Metadata {
		md[k] = v
	}
	hit := map[string]any{"id": a.ID, "permissions": "VPUMERXCD", "metadata": md}
	if rel != nil {
		hit["relation"] = map[string]any{
			"relationId":   rel.ID,
			"relationType": rel.Type,
			"target1Id":    rel.T1,
			"target2Id":    rel.T2,
		}
	}
	return hit
}

// mergeMetadata stores raw JSON metadata the way the service does: scalar
// values come back as strings.
func mergeMetadata(dst map[string]any, raw string) {
	if raw == "" {
		return
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var md map[string]any
	if err := dec.Decode(&md); err != nil {
		return
	}
	for k, v := range md {
		switch val := v.(type) {
		case json.Number:
			dst[k] = val.String()
		case string:
			dst[k] = val
		default:
			dst[k] = fmt.Sprint(val)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
