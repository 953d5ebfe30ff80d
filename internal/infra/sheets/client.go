// Package sheets talks to a spreadsheet-backed web app that keeps the class leaderboard.
// Results are POSTed as JSON rows; GET returns the rows as a JSON array.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"literary-flow/internal/domain"
	"literary-flow/internal/infra/memory"
)

type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient builds a client for the web app at endpoint. A nil httpClient uses a 10s timeout.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{endpoint: endpoint, http: httpClient}
}

type row struct {
	MatchID   string    `json:"matchId,omitempty"`
	BankID    string    `json:"bankId,omitempty"`
	Name      string    `json:"name"`
	ClassName string    `json:"className"`
	Score     int       `json:"score"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// SubmitResult appends or updates the match row.
func (c *Client) SubmitResult(ctx context.Context, result domain.Result) error {
	body, err := json.Marshal(row{
		MatchID:   result.MatchID,
		BankID:    result.BankID,
		Name:      result.Player.Name,
		ClassName: result.Player.ClassName,
		Score:     result.Score,
		Status:    string(result.Status),
		Timestamp: result.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	// Script web apps reject preflighted content types, so the JSON goes as text/plain.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit result: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("submit result: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// FetchLeaderboard reads every row and ranks them locally.
func (c *Client) FetchLeaderboard(ctx context.Context, bankID string, limit int) ([]domain.LeaderboardEntry, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	if bankID != "" {
		q.Set("bank", bankID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch leaderboard: unexpected status %d", resp.StatusCode)
	}

	var rows []row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		// The sheet may hold other banks when the script ignores the filter.
		if bankID != "" && r.BankID != "" && r.BankID != bankID {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			Name:      r.Name,
			ClassName: r.ClassName,
			Score:     r.Score,
			Timestamp: r.Timestamp,
			Status:    domain.Status(r.Status),
		})
	}
	memory.SortEntries(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
