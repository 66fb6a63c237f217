package posts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/crucial707/job-board/cmd/cli/config"
	"github.com/crucial707/job-board/cmd/cli/output"
	"github.com/crucial707/job-board/cmd/cli/root"
	"github.com/spf13/cobra"
)

type jobPost struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Location   string `json:"location"`
	Pay        int    `json:"pay"`
	HourlyWage int    `json:"hourlyWage"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	TotalHours int    `json:"totalHours"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
	UserID     int    `json:"userId"`
}

// ==========================
// CLI Command Init
// ==========================
func init() {
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Browse and manage job posts",
		Long:  "List, inspect, and delete job posts on the Job Board API.",
	}

	postsCmd.AddCommand(listCmd(), getCmd(), createCmd(), deleteCmd())
	root.GetRoot().AddCommand(postsCmd)
}

// ==========================
// List Job Posts
// ==========================
func listCmd() *cobra.Command {
	var cursor, keyword, workTime, hourlyWage string
	var limit int
	var showPast bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List job posts (cursor paginated)",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if cursor != "" {
				q.Set("cursor", cursor)
			}
			if keyword != "" {
				q.Set("searchKeyword", keyword)
			}
			if workTime != "" {
				q.Set("workTime", workTime)
			}
			if hourlyWage != "" {
				q.Set("hourlyWage", hourlyWage)
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			if showPast {
				q.Set("showPast", "true")
			}

			var out struct {
				Data       []jobPost `json:"data"`
				NextCursor *string   `json:"nextCursor"`
			}
			if err := apiGet("/job-posts?"+q.Encode(), &out); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(out.Data))
			for _, p := range out.Data {
				rows = append(rows, []interface{}{p.ID, p.Title, p.Location, p.Date[:10], p.StartTime + "-" + p.EndTime, p.TotalHours, p.HourlyWage})
			}
			output.RenderTable([]string{"ID", "Title", "Location", "Date", "Hours", "Total", "Wage"}, rows)

			if out.NextCursor != nil {
				fmt.Println("next cursor:", *out.NextCursor)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cursor, "cursor", "", "Fetch the page after this cursor")
	cmd.Flags().StringVar(&keyword, "keyword", "", "Search keyword (title or content)")
	cmd.Flags().StringVar(&workTime, "work-time", "", "Filter: short, medium, or long")
	cmd.Flags().StringVar(&hourlyWage, "hourly-wage", "", "Filter: low or high")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (default 5)")
	cmd.Flags().BoolVar(&showPast, "show-past", false, "Include posts whose work date has passed")

	return cmd
}

// ==========================
// Get Job Post
// ==========================
func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one job post with its owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out map[string]interface{}
			if err := apiGet("/job-posts/"+args[0], &out); err != nil {
				return err
			}
			pretty, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(pretty))
			return nil
		},
	}
}

// ==========================
// Create Job Post
// ==========================
func createCmd() *cobra.Command {
	var title, location, date, startTime, endTime, content string
	var pay, hourlyWage, totalHours int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a job post (requires login)",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := config.LoadToken()
			if token == "" {
				return fmt.Errorf("not logged in; run `jobboard login` first")
			}

			payload := map[string]interface{}{
				"title":      title,
				"location":   location,
				"pay":        pay,
				"hourlyWage": hourlyWage,
				"date":       date,
				"startTime":  startTime,
				"endTime":    endTime,
				"totalHours": totalHours,
				"content":    content,
			}
			data, err := json.Marshal(payload)
			if err != nil {
				return err
			}

			req, err := http.NewRequest("POST", config.APIURL()+"/job-posts", bytes.NewReader(data))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusCreated {
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
			}

			var out struct {
				Identifiers []struct {
					ID int `json:"id"`
				} `json:"identifiers"`
			}
			if err := json.Unmarshal(body, &out); err != nil || len(out.Identifiers) == 0 {
				return fmt.Errorf("unexpected response: %s", string(body))
			}
			fmt.Println("Created post", out.Identifiers[0].ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Post title (max 20 chars)")
	cmd.Flags().StringVar(&location, "location", "", "Work location")
	cmd.Flags().IntVar(&pay, "pay", 0, "Total pay")
	cmd.Flags().IntVar(&hourlyWage, "hourly-wage", 0, "Hourly wage")
	cmd.Flags().StringVar(&date, "date", "", "Work date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&startTime, "start", "", "Start time (HH:mm)")
	cmd.Flags().StringVar(&endTime, "end", "", "End time (HH:mm)")
	cmd.Flags().IntVar(&totalHours, "total-hours", 0, "Total hours")
	cmd.Flags().StringVar(&content, "content", "", "Post description")

	return cmd
}

// ==========================
// Delete Job Post
// ==========================
func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a job post you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := config.LoadToken()
			if token == "" {
				return fmt.Errorf("not logged in; run `jobboard login` first")
			}

			req, err := http.NewRequest("DELETE", config.APIURL()+"/job-posts/"+args[0], nil)
			if err != nil {
				return err
			}
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
			}
			fmt.Println("Deleted.")
			return nil
		},
	}
}

func apiGet(path string, out interface{}) error {
	req, err := http.NewRequest("GET", config.APIURL()+path, nil)
	if err != nil {
		return err
	}
	if token := config.LoadToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}
