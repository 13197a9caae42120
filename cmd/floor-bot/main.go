// floor-bot drives one full custody cycle against a running server:
// open, fills, a drop, close, finalize, and a checkpoint pair. It is a
// smoke client for manual and CI use, not part of the service.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"

	"pit-custody/internal/config"
	"pit-custody/internal/logging"
)

type botConfig struct {
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	CasinoID string `env:"CASINO_ID" envDefault:"casino-1"`
	TableID  string `env:"TABLE_ID" envDefault:"bj-07"`
}

type client struct {
	base string
	http *http.Client
}

func (c *client) call(method, path, actorID, role string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-Id", actorID)
	req.Header.Set("X-Actor-Role", role)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var e map[string]string
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, e["error"])
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func main() {
	lc, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(lc)

	var cfg botConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}
	c := &client{base: cfg.BaseURL, http: &http.Client{Timeout: 10 * time.Second}}

	var sess struct {
		ID string `json:"id"`
	}
	if err := c.call(http.MethodPost, "/api/sessions", "bot-clerk", "pit_clerk",
		map[string]any{"casino_id": cfg.CasinoID, "table_id": cfg.TableID}, &sess); err != nil {
		log.Fatal().Err(err).Msg("open session failed")
	}
	log.Info().Str("session_id", sess.ID).Msg("session opened")

	if err := c.call(http.MethodPost, "/api/sessions/"+sess.ID+"/advance", "bot-clerk", "pit_clerk",
		map[string]any{"target": "active"}, nil); err != nil {
		log.Fatal().Err(err).Msg("advance failed")
	}
	for _, amount := range []int64{50000, 25000} {
		if err := c.call(http.MethodPost, "/api/fills", "bot-clerk", "pit_clerk",
			map[string]any{"session_id": sess.ID, "amount_cents": amount}, nil); err != nil {
			log.Fatal().Err(err).Msg("fill failed")
		}
	}
	if err := c.call(http.MethodPost, "/api/credits", "bot-clerk", "pit_clerk",
		map[string]any{"session_id": sess.ID, "amount_cents": 10000}, nil); err != nil {
		log.Fatal().Err(err).Msg("credit failed")
	}
	if err := c.call(http.MethodPost, "/api/drops", "bot-clerk", "pit_clerk",
		map[string]any{"session_id": sess.ID, "amount_cents": 120000}, nil); err != nil {
		log.Fatal().Err(err).Msg("drop failed")
	}

	var closed struct {
		Report struct {
			ID       string `json:"id"`
			WinCents *int64 `json:"win_cents"`
		} `json:"report"`
	}
	if err := c.call(http.MethodPost, "/api/sessions/"+sess.ID+"/close", "bot-boss", "pit_boss",
		map[string]any{"closing_cents": 40000}, &closed); err != nil {
		log.Fatal().Err(err).Msg("close failed")
	}
	win := int64(0)
	if closed.Report.WinCents != nil {
		win = *closed.Report.WinCents
	}
	log.Info().Str("report_id", closed.Report.ID).Int64("win_cents", win).Msg("session closed")

	if err := c.call(http.MethodPost, "/api/rundowns/"+closed.Report.ID+"/finalize", "bot-super", "shift_supervisor", nil, nil); err != nil {
		log.Fatal().Err(err).Msg("finalize failed")
	}

	for i := 0; i < 2; i++ {
		if err := c.call(http.MethodPost, "/api/checkpoints", "bot-super", "shift_supervisor",
			map[string]any{"casino_id": cfg.CasinoID}, nil); err != nil {
			log.Fatal().Err(err).Msg("capture failed")
		}
	}
	var delta json.RawMessage
	if err := c.call(http.MethodGet, "/api/checkpoints/delta?casino_id="+cfg.CasinoID, "bot-super", "shift_supervisor", nil, &delta); err != nil {
		log.Fatal().Err(err).Msg("delta failed")
	}
	log.Info().RawJSON("delta", delta).Msg("custody cycle complete")
}
