// Package marketdata orchestrates the batched broker queries that feed the
// platform: account snapshots, positions, watchlist qualification, quote
// refreshes, historical bars, and option-chain discovery. It owns no
// session state beyond a cache of qualified contracts; translation is
// delegated to internal/translate and batching respects the broker's
// per-call limit with a pacing sleep between chunks.
package marketdata

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"condor/internal/domain"
	"condor/internal/ibkr"
	"condor/internal/translate"
)

const historicalBarSize = "1 day"

// Config carries the adapter's tunables. Zero values fall back to the
// broker defaults: USD, one year of history, batches of 50 paced one
// second apart, and a ±10% strike window.
type Config struct {
	Currency        string
	HistoricalYears int
	BatchLimit      int
	BatchPace       time.Duration
	StrikeWindow    float64
}

func (c Config) withDefaults() Config {
	if c.Currency == "" {
		c.Currency = "USD"
	}
	if c.HistoricalYears <= 0 {
		c.HistoricalYears = 1
	}
	if c.BatchLimit <= 0 {
		c.BatchLimit = 50
	}
	if c.BatchPace <= 0 {
		c.BatchPace = time.Second
	}
	if c.StrikeWindow <= 0 {
		c.StrikeWindow = 0.10
	}
	return c
}

// Adapter aggregates broker data into domain collections over one Session.
// All operations are synchronous; every returned object is freshly
// constructed per call.
type Adapter struct {
	session   ibkr.Session
	cfg       Config
	log       *slog.Logger
	contracts map[string]ibkr.Contract // qualified underlyings by code
}

// New creates an Adapter over the given session.
func New(session ibkr.Session, cfg Config) *Adapter {
	return &Adapter{
		session:   session,
		cfg:       cfg.withDefaults(),
		log:       slog.Default().With("component", "marketdata"),
		contracts: make(map[string]ibkr.Contract),
	}
}

// pace sleeps the configured inter-batch delay on the session.
func (a *Adapter) pace() {
	a.session.Sleep(a.cfg.BatchPace)
}

// AccountValues fetches the raw account report and translates it, keeping
// only values in the configured trading currency.
func (a *Adapter) AccountValues() (domain.Account, error) {
	values, err := a.session.AccountValues()
	if err != nil {
		return domain.Account{}, fmt.Errorf("fetching account values: %w", err)
	}
	return translate.Account(values, a.cfg.Currency)
}

// Positions fetches and translates all holdings, keyed by the stable
// per-position identifier.
func (a *Adapter) Positions() (map[string]domain.Position, error) {
	raw, err := a.session.Positions()
	if err != nil {
		return nil, fmt.Errorf("fetching positions: %w", err)
	}

	positions := make(map[string]domain.Position, len(raw))
	for _, r := range raw {
		pos, err := translate.Position(r)
		if err != nil {
			return nil, err
		}
		positions[pos.ID()] = pos
	}
	return positions, nil
}

// CreateAssets qualifies a watchlist in one call and returns the resulting
// assets keyed by code. Qualification must resolve every definition: any
// mismatch between requested and resolved counts rejects the whole batch
// with ErrAmbiguousContract, with no partial result.
func (a *Adapter) CreateAssets(watchlist []domain.AssetDefinition) (map[string]*domain.Asset, error) {
	contracts := make([]ibkr.Contract, 0, len(watchlist))
	kinds := make(map[string]domain.AssetKind, len(watchlist))
	for _, def := range watchlist {
		currency := def.Currency
		if currency == "" {
			currency = a.cfg.Currency
		}
		switch def.Kind {
		case domain.KindStock, domain.KindETF:
			contracts = append(contracts, ibkr.Contract{
				Symbol:   def.Code,
				SecType:  ibkr.SecTypeStock,
				Exchange: ibkr.ExchangeSmart,
				Currency: currency,
			})
		case domain.KindIndex:
			contracts = append(contracts, ibkr.Contract{
				Symbol:   def.Code,
				SecType:  ibkr.SecTypeIndex,
				Exchange: def.Exchange,
				Currency: currency,
			})
		default:
			return nil, fmt.Errorf("watchlist entry %s: unsupported kind %q", def.Code, def.Kind)
		}
		kinds[def.Code] = def.Kind
	}

	qualified, err := a.session.QualifyContracts(contracts...)
	if err != nil {
		return nil, fmt.Errorf("qualifying watchlist: %w", err)
	}
	if len(qualified) != len(watchlist) {
		return nil, fmt.Errorf("qualified %d of %d watchlist contracts: %w",
			len(qualified), len(watchlist), ErrAmbiguousContract)
	}

	assets := make(map[string]*domain.Asset, len(qualified))
	for _, c := range qualified {
		a.contracts[c.Symbol] = c
		assets[c.Symbol] = &domain.Asset{
			AssetID: domain.AssetID{
				Code:     c.Symbol,
				Kind:     kinds[c.Symbol],
				Currency: c.Currency,
				ConID:    c.ConID,
			},
		}
	}
	a.log.Info("watchlist qualified", "assets", len(assets))
	return assets, nil
}

// UpdateAssets refreshes quotes for the given assets in batches and returns
// one normalized snapshot per asset, keyed by code. Each asset's Current is
// replaced with the fresh snapshot.
func (a *Adapter) UpdateAssets(assets map[string]*domain.Asset) (map[string]domain.Quote, error) {
	codes := make([]string, 0, len(assets))
	for code := range assets {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	contracts := make([]ibkr.Contract, 0, len(codes))
	for _, code := range codes {
		c, ok := a.contracts[code]
		if !ok {
			return nil, fmt.Errorf("asset %s: not qualified, call CreateAssets first", code)
		}
		contracts = append(contracts, c)
	}

	tickers, err := batched(contracts, a.cfg.BatchLimit, a.pace, func(chunk []ibkr.Contract) ([]ibkr.Ticker, error) {
		return a.session.ReqTickers(chunk...)
	})
	if err != nil {
		return nil, fmt.Errorf("refreshing quotes: %w", err)
	}

	current := make(map[string]domain.Quote, len(tickers))
	for _, t := range tickers {
		q := translate.Quote(t)
		current[t.Contract.Symbol] = q
		if asset, ok := assets[t.Contract.Symbol]; ok {
			asset.Current = q
		}
	}
	return current, nil
}

// PriceHistory fetches the configured lookback of daily trade bars for an
// asset, in chronological order.
func (a *Adapter) PriceHistory(asset *domain.Asset) ([]domain.Bar, error) {
	return a.history(asset, ibkr.ShowTrades)
}

// IVHistory fetches the configured lookback of daily implied-volatility
// bars for an asset, in chronological order.
func (a *Adapter) IVHistory(asset *domain.Asset) ([]domain.Bar, error) {
	return a.history(asset, ibkr.ShowImpliedVolatility)
}

func (a *Adapter) history(asset *domain.Asset, whatToShow string) ([]domain.Bar, error) {
	c, ok := a.contracts[asset.Code]
	if !ok {
		return nil, fmt.Errorf("asset %s: not qualified, call CreateAssets first", asset.Code)
	}
	duration := fmt.Sprintf("%d Y", a.cfg.HistoricalYears)
	raw, err := a.session.HistoricalData(c, duration, historicalBarSize, whatToShow, true)
	if err != nil {
		return nil, fmt.Errorf("fetching %s history for %s: %w", whatToShow, asset.Code, err)
	}
	return translate.Bars(raw), nil
}

// OptionChain discovers the option contracts around the money for one
// underlying and expiration. The chain entry must match the underlying's
// trading class on the smart-routing venue; strikes are kept strictly
// inside a window of ±(price × strike-window fraction) around the current
// market price, each paired with both rights. Candidates are qualified and
// quoted in paced batches; candidates the broker cannot qualify are
// dropped — some strike/expiration combinations legitimately don't exist.
func (a *Adapter) OptionChain(asset *domain.Asset, expiration time.Time) (map[string]domain.Option, error) {
	c, ok := a.contracts[asset.Code]
	if !ok {
		return nil, fmt.Errorf("asset %s: not qualified, call CreateAssets first", asset.Code)
	}

	chains, err := a.session.SecDefOptParams(c.Symbol, "", c.SecType, c.ConID)
	if err != nil {
		return nil, fmt.Errorf("fetching option parameters for %s: %w", asset.Code, err)
	}

	var chain *ibkr.OptionChain
	for i := range chains {
		if chains[i].TradingClass == c.Symbol && chains[i].Exchange == ibkr.ExchangeSmart {
			chain = &chains[i]
			break
		}
	}
	if chain == nil {
		return nil, fmt.Errorf("underlying %s: %w", asset.Code, ErrChainNotFound)
	}

	price := asset.Current.MarketPrice()
	if price == nil {
		return nil, fmt.Errorf("asset %s: no market price, refresh quotes first", asset.Code)
	}

	width := *price * a.cfg.StrikeWindow
	lo, hi := *price-width, *price+width
	var strikes []float64
	for _, s := range chain.Strikes {
		if lo < s && s < hi {
			strikes = append(strikes, s)
		}
	}
	sort.Float64s(strikes)

	candidates := make([]ibkr.Contract, 0, 2*len(strikes))
	for _, strike := range strikes {
		for _, right := range []string{"P", "C"} {
			candidates = append(candidates, ibkr.Contract{
				Symbol:                       c.Symbol,
				SecType:                      ibkr.SecTypeOption,
				LastTradeDateOrContractMonth: ibkr.FormatDate(expiration),
				Strike:                       strike,
				Right:                        right,
				Exchange:                     ibkr.ExchangeSmart,
				Currency:                     a.cfg.Currency,
			})
		}
	}

	qualified, err := batched(candidates, a.cfg.BatchLimit, a.pace, func(chunk []ibkr.Contract) ([]ibkr.Contract, error) {
		return a.session.QualifyContracts(chunk...)
	})
	if err != nil {
		return nil, fmt.Errorf("qualifying option candidates for %s: %w", asset.Code, err)
	}
	a.log.Debug("option candidates qualified",
		"underlying", asset.Code,
		"candidates", len(candidates),
		"qualified", len(qualified),
	)

	return a.CreateOptions(qualified)
}

// CreateOptions fetches quotes for already-qualified option contracts in
// paced batches and translates each into a domain Option, keyed by
// strike+right.
func (a *Adapter) CreateOptions(contracts []ibkr.Contract) (map[string]domain.Option, error) {
	tickers, err := batched(contracts, a.cfg.BatchLimit, a.pace, func(chunk []ibkr.Contract) ([]ibkr.Ticker, error) {
		return a.session.ReqTickers(chunk...)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching option quotes: %w", err)
	}

	options := make(map[string]domain.Option, len(tickers))
	for _, t := range tickers {
		opt, err := translate.Option(t)
		if err != nil {
			return nil, err
		}
		options[opt.Key()] = opt
	}
	return options, nil
}
