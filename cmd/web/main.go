package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates
var templatesFS embed.FS

const (
	cookieName  = "jobboard_token"
	defaultPort = "3000"
	defaultAPI  = "http://localhost:8080"
	envWebPort  = "JOBBOARD_WEB_PORT"
	envAPIURL   = "JOBBOARD_API_URL"
)

func main() {
	port := getEnv(envWebPort, defaultPort)
	apiBase := getEnv(envAPIURL, defaultAPI)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health (no auth, no templates)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Public: browsing needs no account
	r.Get("/login", loginForm)
	r.Post("/login", loginSubmit(apiBase))
	r.Get("/logout", logout)
	r.Get("/", redirectPosts)
	r.Get("/posts", postsList(apiBase))
	r.Get("/posts/{id}", postDetail(apiBase))

	log.Printf("Web UI running on http://localhost:%s (API: %s)", port, apiBase)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func redirectPosts(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/posts", http.StatusFound)
}

func loginForm(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(cookieName); err == nil {
		http.Redirect(w, r, "/posts", http.StatusFound)
		return
	}
	renderTemplate(w, "login.html", nil)
}

func loginSubmit(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")
		if username == "" || password == "" {
			renderTemplate(w, "login.html", map[string]string{"Error": "Username and password are required"})
			return
		}

		body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
		req, _ := http.NewRequest("POST", apiBase+"/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			renderTemplate(w, "login.html", map[string]string{"Error": "Cannot reach API: " + err.Error()})
			return
		}
		defer resp.Body.Close()

		data, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			var errResp struct{ Error string }
			_ = json.Unmarshal(data, &errResp)
			msg := errResp.Error
			if msg == "" {
				msg = string(data)
			}
			renderTemplate(w, "login.html", map[string]string{"Error": msg})
			return
		}

		var out struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(data, &out); err != nil || out.AccessToken == "" {
			renderTemplate(w, "login.html", map[string]string{"Error": "Invalid login response"})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    out.AccessToken,
			Path:     "/",
			MaxAge:   12 * 3600,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/posts", http.StatusFound)
	}
}

func logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/login", http.StatusFound)
}

type postRow struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Location   string `json:"location"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	TotalHours int    `json:"totalHours"`
	HourlyWage int    `json:"hourlyWage"`
	Pay        int    `json:"pay"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
	User       *struct {
		ID       int    `json:"id"`
		Nickname string `json:"nickname"`
	} `json:"user"`
}

func postsList(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := url.Values{}
		for _, name := range []string{"cursor", "searchKeyword", "workTime", "hourlyWage", "showPast"} {
			if v := r.URL.Query().Get(name); v != "" {
				q.Set(name, v)
			}
		}

		data, status, err := apiGet(apiBase, "/job-posts?"+q.Encode())
		if err != nil || status != http.StatusOK {
			http.Error(w, "API error", http.StatusBadGateway)
			return
		}

		var out struct {
			Data       []postRow `json:"data"`
			NextCursor *string   `json:"nextCursor"`
		}
		if err := json.Unmarshal(data, &out); err != nil {
			http.Error(w, "bad API response", http.StatusBadGateway)
			return
		}

		// Preserve filters on the load-more link.
		var nextURL string
		if out.NextCursor != nil {
			next := q
			next.Set("cursor", *out.NextCursor)
			nextURL = "/posts?" + next.Encode()
		}

		renderTemplate(w, "posts.html", map[string]interface{}{
			"Posts":    out.Data,
			"NextURL":  nextURL,
			"Keyword":  q.Get("searchKeyword"),
			"LoggedIn": hasCookie(r),
		})
	}
}

func postDetail(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		data, status, err := apiGet(apiBase, "/job-posts/"+id)
		if status == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		if err != nil || status != http.StatusOK {
			http.Error(w, "API error", http.StatusBadGateway)
			return
		}

		var post postRow
		if err := json.Unmarshal(data, &post); err != nil {
			http.Error(w, "bad API response", http.StatusBadGateway)
			return
		}

		renderTemplate(w, "post.html", map[string]interface{}{
			"Post":     post,
			"LoggedIn": hasCookie(r),
		})
	}
}

func hasCookie(r *http.Request) bool {
	c, err := r.Cookie(cookieName)
	return err == nil && c.Value != ""
}

func apiGet(apiBase, path string) ([]byte, int, error) {
	req, err := http.NewRequest("GET", apiBase+path, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	return data, resp.StatusCode, err
}

func renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	tmpl, err := template.ParseFS(templatesFS, "templates/"+name)
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tmpl.Execute(w, data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}
