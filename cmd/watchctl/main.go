// Package main provides the watchctl CLI for driving the server API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
)

var (
	app    = kingpin.New("watchctl", "Smart movie recommendor client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()

	// search command
	searchCmd   = app.Command("search", "Search movies by title")
	searchQuery = searchCmd.Arg("query", "Title to search for").Required().String()
	searchPage  = searchCmd.Flag("page", "Result page").Default("1").Int()

	// mood command
	moodCmd  = app.Command("mood", "Search movies by mood description")
	moodText = moodCmd.Arg("mood", "Free-form mood description").Required().String()

	// add command
	addCmd = app.Command("add", "Add a movie to the watchlist")
	addID  = addCmd.Arg("imdb-id", "IMDb ID (e.g. tt1375666)").Required().String()

	// remove command
	removeCmd = app.Command("remove", "Remove a movie from the watchlist")
	removeID  = removeCmd.Arg("imdb-id", "IMDb ID").Required().String()

	// list command
	listCmd = app.Command("list", "Show the watchlist")

	// plan command
	planCmd    = app.Command("plan", "Suggest removals to fit a time budget")
	planBudget = planCmd.Arg("budget-minutes", "Available viewing time in minutes").Required().Float64()
	planApply  = planCmd.Flag("apply", "Remove the suggested entries immediately").Bool()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	switch command {
	case searchCmd.FullCommand():
		search(*searchQuery, *searchPage)
	case moodCmd.FullCommand():
		moodSearch(*moodText)
	case addCmd.FullCommand():
		add(*addID)
	case removeCmd.FullCommand():
		remove(*removeID)
	case listCmd.FullCommand():
		list()
	case planCmd.FullCommand():
		plan(*planBudget, *planApply)
	}
}

type searchResponse struct {
	Keywords []string `json:"keywords"`
	Results  []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Year  string `json:"year"`
	} `json:"results"`
	Total int `json:"total"`
}

type entryPayload struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Year         string  `json:"year"`
	DurationText string  `json:"duration_text"`
	RatingText   string  `json:"rating_text"`
	Minutes      int     `json:"minutes"`
	Score        float64 `json:"score"`
}

type listResponse struct {
	Entries      []entryPayload `json:"entries"`
	Count        int            `json:"count"`
	TotalMinutes int            `json:"total_minutes"`
}

type planResponse struct {
	PlanID           string         `json:"plan_id"`
	TotalMinutes     int            `json:"total_minutes"`
	RemainingMinutes int            `json:"remaining_minutes"`
	Fits             bool           `json:"fits"`
	DropList         []entryPayload `json:"drop_list"`
	Applied          bool           `json:"applied"`
}

func search(query string, page int) {
	var resp searchResponse
	get("/api/search?q="+url.QueryEscape(query)+"&page="+strconv.Itoa(page), &resp)

	fmt.Printf("Found %d movies:\n", resp.Total)
	for _, r := range resp.Results {
		fmt.Printf("  %-10s  %s (%s)\n", r.ID, r.Title, r.Year)
	}
}

func moodSearch(mood string) {
	var resp searchResponse
	post("/api/mood-search", map[string]any{"mood": mood}, &resp)

	fmt.Printf("Keywords: %v\n", resp.Keywords)
	fmt.Printf("Found %d movies:\n", resp.Total)
	for _, r := range resp.Results {
		fmt.Printf("  %-10s  %s (%s)\n", r.ID, r.Title, r.Year)
	}
}

func add(id string) {
	var resp map[string]any
	post("/api/watchlist", map[string]any{"id": id}, &resp)
	fmt.Printf("Added %s. Watchlist: %v entries, %v min total.\n", id, resp["count"], resp["total_minutes"])
}

func remove(id string) {
	req, err := http.NewRequest(http.MethodDelete, *server+"/api/watchlist/"+url.PathEscape(id), nil)
	if err != nil {
		fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		fatalBody(resp)
	}
	fmt.Printf("Removed %s.\n", id)
}

func list() {
	var resp listResponse
	get("/api/watchlist", &resp)

	if resp.Count == 0 {
		fmt.Println("Watchlist is empty.")
		return
	}
	fmt.Printf("Watchlist (%d entries, %d min total):\n", resp.Count, resp.TotalMinutes)
	for _, e := range resp.Entries {
		fmt.Printf("  %-10s  %-40s %4d min  rating %-4s density %.4f\n",
			e.ID, e.Title, e.Minutes, e.RatingText, e.Score)
	}
}

func plan(budget float64, apply bool) {
	path := "/api/watchlist/plan"
	if apply {
		path = "/api/watchlist/plan/apply"
	}

	var resp planResponse
	post(path, map[string]any{"budget_minutes": budget}, &resp)

	fmt.Printf("Total %d min, budget %.0f min.\n", resp.TotalMinutes, budget)
	if len(resp.DropList) == 0 {
		fmt.Println("Everything fits, nothing to drop.")
		return
	}

	verb := "Suggested drops"
	if resp.Applied {
		verb = "Removed"
	}
	fmt.Printf("%s:\n", verb)
	for _, e := range resp.DropList {
		fmt.Printf("  %-10s  %-40s %4d min  density %.4f\n", e.ID, e.Title, e.Minutes, e.Score)
	}
	fmt.Printf("Remaining: %d min (fits: %v)\n", resp.RemainingMinutes, resp.Fits)
}

func get(path string, out any) {
	resp, err := http.Get(*server + path)
	if err != nil {
		fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fatalBody(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		fatal(err)
	}
}

func post(path string, body map[string]any, out any) {
	raw, err := json.Marshal(body)
	if err != nil {
		fatal(err)
	}
	resp, err := http.Post(*server+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		fatalBody(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}

func fatalBody(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Error: server returned %d: %s\n", resp.StatusCode, bytes.TrimSpace(body))
	os.Exit(1)
}
