package dhlottery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lottolab/domain/draw"
	apperrors "lottolab/internal/errors"
)

const defaultBaseURL = "https://www.dhlottery.co.kr"

// Client fetches official draw results from the dhlottery JSON endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client. baseURL may be empty to use the official host.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// drawResponse mirrors the upstream JSON payload.
type drawResponse struct {
	ReturnValue string `json:"returnValue"`
	DrwNo       int    `json:"drwNo"`
	DrwNoDate   string `json:"drwNoDate"`
	DrwtNo1     int    `json:"drwtNo1"`
	DrwtNo2     int    `json:"drwtNo2"`
	DrwtNo3     int    `json:"drwtNo3"`
	DrwtNo4     int    `json:"drwtNo4"`
	DrwtNo5     int    `json:"drwtNo5"`
	DrwtNo6     int    `json:"drwtNo6"`
	BnusNo      int    `json:"bnusNo"`
}

// FetchDraw returns the official record for one draw number. A draw that has
// not happened yet yields a NOT_FOUND error.
func (c *Client) FetchDraw(ctx context.Context, drawNo int) (draw.Record, error) {
	url := fmt.Sprintf("%s/common.do?method=getLottoNumber&drwNo=%d", c.baseURL, drawNo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return draw.Record{}, apperrors.ExternalServiceError("dhlottery", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return draw.Record{}, apperrors.ExternalServiceError("dhlottery", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return draw.Record{}, apperrors.ExternalServiceError("dhlottery",
			fmt.Errorf("unexpected status %d for draw %d", resp.StatusCode, drawNo))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return draw.Record{}, apperrors.ExternalServiceError("dhlottery", err)
	}

	var payload drawResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return draw.Record{}, apperrors.ExternalServiceError("dhlottery", err)
	}
	if payload.ReturnValue != "success" {
		return draw.Record{}, apperrors.NotFound(fmt.Sprintf("draw %d", drawNo))
	}

	date, err := time.Parse("2006-01-02", payload.DrwNoDate)
	if err != nil {
		return draw.Record{}, apperrors.ExternalServiceError("dhlottery",
			fmt.Errorf("invalid draw date %q: %w", payload.DrwNoDate, err))
	}

	rec := draw.Record{
		DrawNo:   payload.DrwNo,
		DrawDate: date,
		Numbers:  []int{payload.DrwtNo1, payload.DrwtNo2, payload.DrwtNo3, payload.DrwtNo4, payload.DrwtNo5, payload.DrwtNo6},
		Bonus:    payload.BnusNo,
	}
	if err := rec.Validate(); err != nil {
		return draw.Record{}, apperrors.Wrapf(err, "upstream draw %d failed validation", drawNo)
	}
	return rec, nil
}
