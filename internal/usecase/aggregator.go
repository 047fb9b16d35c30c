package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"OddsCast/internal/domain/models"
	drepo "OddsCast/internal/domain/repository"
	applogger "OddsCast/pkg/logger"

	"github.com/benbjohnson/clock"
)

// Fixed sub-signal weights. Kalshi's order book contributes three
// signals; Polymarket contributes one.
const (
	weightPolymarket = 0.40
	weightKalshiLast = 0.42
	weightKalshiMid  = 0.12
	weightKalshiLiq  = 0.06

	// softNormFraction is the fraction of the correction toward a
	// 100-sum applied per cycle. Never fully re-normalize in one step.
	softNormFraction = 0.30

	// sourceTimeout bounds each market fetch independently; one hanging
	// source must not delay the other.
	sourceTimeout = 10 * time.Second
)

// ErrSourcesUnavailable means the cycle produced no snapshot because a
// market source failed or timed out. The cycle is skipped, never fatal.
var ErrSourcesUnavailable = errors.New("market sources unavailable")

// Aggregator combines near-simultaneous readings from Polymarket and
// Kalshi into one raw snapshot per cycle.
type Aggregator struct {
	poly    drepo.PolymarketSource
	kalshi  drepo.KalshiSource
	metrics drepo.Metrics
	l       *applogger.Logger
	clk     clock.Clock
}

// NewAggregator creates an Aggregator.
func NewAggregator(poly drepo.PolymarketSource, kalshi drepo.KalshiSource, metrics drepo.Metrics, l *applogger.Logger, clk clock.Clock) *Aggregator {
	return &Aggregator{poly: poly, kalshi: kalshi, metrics: metrics, l: l, clk: clk}
}

// Collect fetches both sources concurrently, joins on both (or their
// timeouts), and produces the next raw snapshot. If either source
// fails, no snapshot is produced and the cycle is skipped.
func (a *Aggregator) Collect(ctx context.Context) (*models.Snapshot, error) {
	type polyResult struct {
		readings []models.PolymarketReading
		err      error
	}
	type kalshiResult struct {
		quotes []models.KalshiQuote
		err    error
	}

	polyCh := make(chan polyResult, 1)
	kalshiCh := make(chan kalshiResult, 1)

	go func() {
		fctx, cancel := context.WithTimeout(ctx, sourceTimeout)
		defer cancel()
		start := time.Now()
		r, err := a.poly.Fetch(fctx)
		a.metrics.RecordSourceLatency("polymarket", time.Since(start).Seconds())
		polyCh <- polyResult{r, err}
	}()
	go func() {
		fctx, cancel := context.WithTimeout(ctx, sourceTimeout)
		defer cancel()
		start := time.Now()
		q, err := a.kalshi.Fetch(fctx)
		a.metrics.RecordSourceLatency("kalshi", time.Since(start).Seconds())
		kalshiCh <- kalshiResult{q, err}
	}()

	pr := <-polyCh
	kr := <-kalshiCh

	if pr.err != nil {
		a.l.Warn("polymarket fetch failed", applogger.Error(pr.err))
	}
	if kr.err != nil {
		a.l.Warn("kalshi fetch failed", applogger.Error(kr.err))
	}
	if pr.err != nil || kr.err != nil {
		return nil, fmt.Errorf("%w: polymarket=%v kalshi=%v", ErrSourcesUnavailable, pr.err, kr.err)
	}

	quotes := make(map[string]models.KalshiQuote, len(kr.quotes))
	for _, q := range kr.quotes {
		quotes[q.Name] = q
	}

	snap := &models.Snapshot{Timestamp: a.clk.Now().UTC()}
	for _, r := range pr.readings {
		q, hasKalshi := quotes[r.Name]
		price := r.Price
		if hasKalshi {
			price = combine(r.Price, q)
		}
		snap.Candidates = append(snap.Candidates, models.CandidateOdds{
			Name:        r.Name,
			Probability: price,
			HasKalshi:   hasKalshi,
		})
	}

	softNormalize(snap.Candidates)
	return snap, nil
}

// combine is the fixed weighted sum of the four sub-signals. When
// Kalshi's bid side is empty (thin market), the midpoint and
// liquidity-adjusted signals are degenerate and fall back to the last
// traded price, so a zero bid cannot inflate the midpoint.
func combine(polyPrice float64, q models.KalshiQuote) float64 {
	mid := (q.YesBid + q.YesAsk) / 2
	liq := mid
	if depth := q.BidDepth + q.AskDepth; depth > 0 {
		liq = (q.YesBid*q.AskDepth + q.YesAsk*q.BidDepth) / depth
	}
	if q.YesBid == 0 {
		mid = q.Last
		liq = q.Last
	}
	return weightPolymarket*polyPrice +
		weightKalshiLast*q.Last +
		weightKalshiMid*mid +
		weightKalshiLiq*liq
}

// softNormalize nudges every price toward a 100-sum by a fixed fraction
// of the required correction, then clamps into [0,100]. A raw sum of
// 110 moves to 107, not 100.
func softNormalize(cands []models.CandidateOdds) {
	sum := 0.0
	for _, c := range cands {
		sum += c.Probability
	}
	if sum <= 0 {
		return
	}
	factor := 1 + softNormFraction*(100-sum)/sum
	for i := range cands {
		p := cands[i].Probability * factor
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		cands[i].Probability = p
	}
}
