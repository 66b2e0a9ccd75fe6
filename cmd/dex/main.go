// Package main provides the marketplace CLI: makers place and manage
// contract advertisements, takers browse and reply, and either side
// reports completed on-chain actions and inspects contract status.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"utxo-dex-relay/internal/domain"
	"utxo-dex-relay/internal/events"
	"utxo-dex-relay/internal/filters"
	"utxo-dex-relay/internal/observability"
	"utxo-dex-relay/internal/processor"
	"utxo-dex-relay/internal/relay"
	"utxo-dex-relay/internal/storage"
	"utxo-dex-relay/internal/storage/memory"
	pgstore "utxo-dex-relay/internal/storage/postgres"
	"utxo-dex-relay/internal/taproot"
)

const usage = `Usage: dex <command> [flags]

Maker commands:
  place-order     publish a maker order advertisement
  create-option   publish an option-created advertisement
  create-swap     publish a swap-created advertisement

Taker commands:
  list-orders     list live maker orders
  reply           reply to a maker order (accept, counter, decline)
  get-order       fetch one order by event id
  params          fetch an order's cached parameters

Shared commands:
  replies         list replies to an order
  list-options    list live option advertisements
  list-swaps      list live swap advertisements
  report-action   publish an action-completed report
  actions         list action reports for a contract
  status          derived lifecycle status of a contract

Run 'dex <command> -h' for command flags.
`

// commonFlags are the connection flags every subcommand shares.
type commonFlags struct {
	relays      string
	privateKey  string
	network     string
	timeout     time.Duration
	retryCount  int
	postgresDSN string
	useMemory   bool
	metricsAddr string
}

func registerCommon(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.relays, "relays", "", "Comma-separated relay websocket URLs, in preference order")
	fs.StringVar(&c.privateKey, "key", "", "Hex private key for publishing (omit for read-only)")
	fs.StringVar(&c.network, "network", "testnet", "Network for taproot commitments: mainnet or testnet")
	fs.DurationVar(&c.timeout, "timeout", 10*time.Second, "Relay request collect window")
	fs.IntVar(&c.retryCount, "retry-count", 2, "Relay list retry count")
	fs.StringVar(&c.postgresDSN, "postgres-dsn", "", "PostgreSQL connection string for the order params cache")
	fs.BoolVar(&c.useMemory, "use-memory", false, "Use in-memory order params cache instead of PostgreSQL")
	fs.StringVar(&c.metricsAddr, "metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	return c
}

func main() {
	logger := log.New(os.Stdout, "[dex] ", log.LstdFlags|log.Lshortfile)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	command := os.Args[1]
	args := os.Args[2:]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	var err error
	switch command {
	case "place-order":
		err = runPlaceOrder(ctx, logger, args)
	case "list-orders":
		err = runListOrders(ctx, logger, args)
	case "reply":
		err = runReply(ctx, logger, args)
	case "replies":
		err = runReplies(ctx, logger, args)
	case "get-order":
		err = runGetOrder(ctx, logger, args)
	case "params":
		err = runParams(ctx, logger, args)
	case "create-option":
		err = runCreateOption(ctx, logger, args)
	case "create-swap":
		err = runCreateSwap(ctx, logger, args)
	case "list-options":
		err = runListOptions(ctx, logger, args)
	case "list-swaps":
		err = runListSwaps(ctx, logger, args)
	case "report-action":
		err = runReportAction(ctx, logger, args)
	case "actions":
		err = runActions(ctx, logger, args)
	case "status":
		err = runStatus(ctx, logger, args)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n%s", command, usage)
		os.Exit(2)
	}

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}
}

// setup dials the relay and assembles a processor from the common flags.
func setup(ctx context.Context, logger *log.Logger, c *commonFlags) (*processor.Processor, func(), error) {
	network, err := resolveNetwork(c.network)
	if err != nil {
		return nil, nil, err
	}

	cfg := relay.DefaultConfig().WithTimeout(c.timeout)
	cfg.RetryCount = c.retryCount
	for _, url := range strings.Split(c.relays, ",") {
		url = strings.TrimSpace(url)
		if url != "" {
			cfg = cfg.WithRelay(url)
		}
	}

	transport, err := relay.Dial(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { transport.Close() }

	store, closeStore, err := setupStore(ctx, logger, c)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if closeStore != nil {
		prev := cleanup
		cleanup = func() { closeStore(); prev() }
	}

	if c.metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("OK"))
			})
			logger.Printf("Starting metrics server on %s", c.metricsAddr)
			if err := http.ListenAndServe(c.metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	pcfg := processor.Config{
		Network: network,
		Store:   store,
		Logger:  logger,
	}

	if c.privateKey != "" {
		signer, err := relay.NewLocalSigner(c.privateKey)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		logger.Printf("Publishing as %s", signer.PublicKey())
		pcfg.Publisher = relay.NewPublishingClient(transport, c.timeout, signer)
	} else {
		pcfg.Reader = relay.NewClient(transport, c.timeout)
	}

	return processor.New(pcfg), cleanup, nil
}

// setupStore picks the order params cache backend.
func setupStore(ctx context.Context, logger *log.Logger, c *commonFlags) (storage.OrderParamsStore, func(), error) {
	if c.useMemory || c.postgresDSN == "" {
		logger.Println("Using in-memory order params cache")
		return memory.NewOrderParamsStore(), nil, nil
	}

	pool, err := pgstore.NewPool(ctx, c.postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect order params cache: %w", err)
	}
	logger.Println("Using PostgreSQL order params cache")
	return pgstore.NewOrderParamsStore(pool), pool.Close, nil
}

func resolveNetwork(name string) (taproot.Params, error) {
	switch strings.ToLower(name) {
	case "mainnet":
		return taproot.Mainnet, nil
	case "testnet":
		return taproot.Testnet, nil
	}
	return taproot.Params{}, fmt.Errorf("unknown network %q", name)
}

// registerOrderArgs adds the maker order argument flags.
func registerOrderArgs(fs *flag.FlagSet) *orderArgFlags {
	f := &orderArgFlags{}
	fs.Uint64Var(&f.fundingStart, "funding-start", 0, "Taker funding window start (unix seconds)")
	fs.Uint64Var(&f.fundingEnd, "funding-end", 0, "Taker funding window end (unix seconds)")
	fs.Uint64Var(&f.contractExpiry, "contract-expiry", 0, "Contract expiry time (unix seconds)")
	fs.Uint64Var(&f.earlyTermEnd, "early-termination-end", 0, "Early termination window end (unix seconds)")
	fs.Uint64Var(&f.settlementHeight, "settlement-height", 0, "Oracle settlement block height")
	fs.Uint64Var(&f.principal, "principal", 0, "Principal collateral amount")
	fs.Uint64Var(&f.incentiveBPS, "incentive-bps", 0, "Incentive in basis points")
	fs.Uint64Var(&f.fillerPerPrincipal, "filler-per-principal", 0, "Filler collateral per principal unit")
	fs.Uint64Var(&f.strike, "strike", 0, "Strike price")
	fs.StringVar(&f.collateralAsset, "collateral-asset", "", "Collateral asset id (64 hex chars)")
	fs.StringVar(&f.settlementAsset, "settlement-asset", "", "Settlement asset id (64 hex chars)")
	fs.StringVar(&f.oraclePubkey, "oracle-pubkey", "", "Oracle public key (64 hex chars)")
	return f
}

type orderArgFlags struct {
	fundingStart, fundingEnd, contractExpiry, earlyTermEnd, settlementHeight uint64
	principal, incentiveBPS, fillerPerPrincipal, strike                      uint64
	collateralAsset, settlementAsset, oraclePubkey                           string
}

func (f *orderArgFlags) build() (domain.OrderArgs, error) {
	args := domain.OrderArgs{
		TakerFundingStartTime:        uint32(f.fundingStart),
		TakerFundingEndTime:          uint32(f.fundingEnd),
		ContractExpiryTime:           uint32(f.contractExpiry),
		EarlyTerminationEndTime:      uint32(f.earlyTermEnd),
		SettlementHeight:             uint32(f.settlementHeight),
		PrincipalCollateralAmount:    f.principal,
		IncentiveBasisPoints:         f.incentiveBPS,
		FillerPerPrincipalCollateral: f.fillerPerPrincipal,
		StrikePrice:                  f.strike,
	}

	var err error
	if args.CollateralAssetID, err = parseAssetID(f.collateralAsset); err != nil {
		return args, fmt.Errorf("collateral-asset: %w", err)
	}
	if args.SettlementAssetID, err = parseAssetID(f.settlementAsset); err != nil {
		return args, fmt.Errorf("settlement-asset: %w", err)
	}
	if args.OraclePublicKey, err = parseHex32(f.oraclePubkey); err != nil {
		return args, fmt.Errorf("oracle-pubkey: %w", err)
	}
	return args, nil
}

func parseAssetID(s string) (domain.AssetID, error) {
	if s == "" {
		return domain.AssetID{}, nil
	}
	return domain.AssetIDFromHex(s)
}

// parseHex32 decodes an optional 64-character hex string into 32 bytes.
func parseHex32(s string) ([32]byte, error) {
	var out [32]byte
	if s == "" {
		return out, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	if len(b) != len(out) {
		return out, fmt.Errorf("expected %d bytes, got %d", len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}

func runPlaceOrder(ctx context.Context, logger *log.Logger, argv []string) error {
	fs := flag.NewFlagSet("place-order", flag.ExitOnError)
	common := registerCommon(fs)
	orderFlags := registerOrderArgs(fs)
	outpointStr := fs.String("outpoint", "", "Funding outpoint txid:vout")
	expiry := fs.Uint64("expiry", 0, "Advertisement expiry (unix seconds)")
	fs.Parse(argv)

	args, err := orderFlags.build()
	if err != nil {
		return err
	}
	outpoint, err := domain.ParseOutPoint(*outpointStr)
	if err != nil {
		return fmt.Errorf("outpoint: %w", err)
	}

	p, cleanup, err := setup(ctx, logger, common)
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := p.PlaceOrder(ctx, args, outpoint, *expiry)
	if err != nil {
		return err
	}
	fmt.Printf("order placed: %s\n", id)
	return nil
}

func runListOrders(ctx context.Context, logger *log.Logger, argv []string) error {
	fs := flag.NewFlagSet("list-orders", flag.ExitOnError)
	common := registerCommon(fs)
	query := registerListQuery(fs)
	fs.Parse(argv)

	p, cleanup, err := setup(ctx, logger, common)
	if err != nil {
		return err
	}
	defer cleanup()

	summaries, err := p.OrderSummaries(ctx, query.build())
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("no live orders")
		return nil
	}
	for _, s := range summaries {
		printSummary(s)
	}
	return nil
}

func printSummary(s events.OrderSummary) {
	fmt.Printf("order %s\n", s.EventID)
	fmt.Printf("  time        %s\n", s.Time.Format(time.RFC3339))
	fmt.Printf("  strike      %d\n", s.StrikePrice)
	fmt.Printf("  principal   %s\n", s.Principal)
	fmt.Printf("  incentive   %d bps\n", s.IncentiveBasisPoints)
	fmt.Printf("  settlement  height %d\n", s.SettlementHeight)
	fmt.Printf("  oracle      %s\n", s.OracleShort)
	fmt.Printf("  outpoint    %s\n", s.Outpoint)
	fmt.Printf("  expires     %s\n", s.Expiry.Format(time.RFC3339))
}

// registerListQuery adds the listing narrowing flags.
func registerListQuery(fs *flag.FlagSet) *listQueryFlags {
	f := &listQueryFlags{}
	fs.StringVar(&f.authors, "authors", "", "Comma-separated author public keys")
	fs.Int64Var(&f.since, "since", 0, "Only events at or after this unix time")
	fs.Int64Var(&f.until, "until", 0, "Only events at or before this unix time")
	fs.IntVar(&f.limit, "limit", 0, "Maximum events to request")
	return f
}

type listQueryFlags struct {
	authors      string
	since, until int64
	limit        int
}

func (f *listQueryFlags) build() filters.ListQuery {
	q := filters.ListQuery{Limit: f.limit}
	for _, a := range strings.Split(f.authors, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			q.Authors = append(q.Authors, a)
		}
	}
	if f.since > 0 {
		ts := nostr.Timestamp(f.since)
		q.Since = &ts
	}
	if f.until > 0 {
		ts := nostr.Timestamp(f.until)
		q.Until = &ts
	}
	return q
}

func runReply(ctx context.Context, logger *log.Logger, argv []string) error {
	fs := flag.NewFlagSet("reply", flag.ExitOnError)
	common := registerCommon(fs)
	orderID := fs.String("order", "", "Maker order event id")
	replyType := fs.String("type", "", "Reply type: accept, counter, or decline")
	txID := fs.String("tx-id", "", "Funding transaction id (accept, counter)")
	reason := fs.String("reason", "", "Decline reason")
	counterFlags := registerOrderArgs(fs)
	fs.Parse(argv)

	reply := events.OrderReply{Type: events.ReplyType(*replyType), Reason: *reason}
	switch reply.Type {
	case events.ReplyAccept, events.ReplyCounter:
		txid, err := domain.TxidFromHex(*txID)
		if err != nil {
			return fmt.Errorf("tx-id: %w", err)
		}
		reply.TxID = txid
		if reply.Type == events.ReplyCounter {
			args, err := counterFlags.build()
			if err != nil {
				return err
			}
			reply.CounterArgs = &args
		}
	case events.ReplyDecline:
	default:
		return fmt.Errorf("unknown reply type %q", *replyType)
	}

	p, cleanup, err := setup(ctx, logger, common)
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := p.ReplyOrder(ctx, *orderID, reply)
	if err != nil {
		return err
	}
	fmt.Printf("reply published: %s\n", id)
	return nil
}

func runReplies(ctx context.Context, logger *log.Logger, argv []string) error {
	fs := flag.NewFlagSet("replies", flag.ExitOnError)
	common := registerCommon(fs)
	orderID := fs.String("order", "", "Maker order event id")
	fs.Parse(argv)

	p, cleanup, err := setup(ctx, logger, common)
	if err != nil {
		return err
	}
	defer cleanup()

	replies, err := p.OrderReplies(ctx, *orderID)
	if err != nil {
		return err
	}
	if len(replies) == 0 {
		fmt.Println("no replies")
		return nil
	}
	for _, r := range replies {
		fmt.Printf("%s  %s  from %s", r.CreatedAt.Time().UTC().Format(time.RFC3339), r.Reply.Type, r.Pubkey)
		switch r.Reply.Type {
		case events.ReplyAccept, events.ReplyCounter:
			fmt.Printf("  tx %s", r.Reply.TxID)
		case events.ReplyDecline:
			fmt.Printf("  reason %q", r.Reply.Reason)
		}
		fmt.Println()
	}
	return nil
}

func runGetOrder(ctx context.Context, logger *log.Logger, argv []string) error {
	fs := flag.NewFlagSet("get-order", flag.ExitOnError)
	common := registerCommon(fs)
	orderID := fs.String("order", "", "Maker order event id")
	fs.Parse(argv)

	p, cleanup, err := setup(ctx, logger, common)
	if err != nil {
		return err
	}
	defer cleanup()

	order, err := p.GetOrderByID(ctx, *orderID)
	if err != nil {
		return err
	}
	printSummary(order.Summary())
	return nil
}

func runParams(ctx context.Context, logger *log.Logger, argv []string) error {
	fs := flag.NewFlagSet("params", flag.ExitOnError)
	common := registerCommon(fs)
	orderID := fs.String("order", "", "Maker order event id")
	fs.Parse(argv)

	p, cleanup, err := setup(ctx, logger, common)
	if err != nil {
		return err
	}
	defer cleanup()

	params, err := p.GetOrderParams(ctx, *orderID)
	if err != nil {
		return err
	}
	fmt.Printf("taproot pubkey gen: %s\n", params.TaprootPubkeyGen)
	fmt.Printf("args: %+v\n", params.Args)
	return nil
}

func runCreateOption(ctx context.Context, logger *log.Logger, argv []string) error {
	fs := flag.NewFlagSet("create-option", flag.ExitOnError)
	common := registerCommon(fs)
	start := fs.Uint64("start", 0, "Option start time (unix seconds)")
	optExpiry := fs.Uint64("option-expiry", 0, "Option expiry time (unix seconds)")
	collateralPer := fs.Uint64("collateral-per-contract", 0, "Collateral per contract")
	settlementPer := fs.Uint64("settlement-per-contract", 0, "Settlement per contract")
	collateralAsset := fs.String("collateral-asset", "", "Collateral asset id (64 hex chars)")
	settlementAsset := fs.String("settlement-asset", "", "Settlement asset id (64 hex chars)")
	optionEntropy := fs.String("option-entropy", "", "Option token entropy (64 hex chars)")
	grantorEntropy := fs.String("grantor-entropy", "", "Grantor token entropy (64 hex chars)")
	outpointStr := fs.String("outpoint", "", "Funding outpoint txid:vout")
	expiry := fs.Uint64("expiry", 0, "Advertisement expiry (unix seconds)")
	fs.Parse(argv)

	args := domain.OptionsArgs{
		StartTime:             uint32(*start),
		ExpiryTime:            uint32(*optExpiry),
		CollateralPerContract: *collateralPer,
		SettlementPerContract: *settlementPer,
	}
	var err error
	if args.CollateralAssetID, err = parseAssetID(*collateralAsset); err != nil {
		return fmt.Errorf("collateral-asset: %w", err)
	}
	if args.SettlementAssetID, err = parseAssetID(*settlementAsset); err != nil {
		return fmt.Errorf("settlement-asset: %w", err)
	}
	if args.OptionTokenEntropy, err = parseHex32(*optionEntropy); err != nil {
		return fmt.Errorf("option-entropy: %w", err)
	}
	if args.GrantorTokenEntropy, err = parseHex32(*grantorEntropy); err != nil {
		return fmt.Errorf("grantor-entropy: %w", err)
	}

	outpoint, err := domain.ParseOutPoint(*outpointStr)
	if err != nil {
		return fmt.Errorf("outpoint: %w", err)
	}

	p, cleanup, err := setup(ctx, logger, common)
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := p.CreateOption(ctx, args, outpoint, *expiry)
	if err != nil {
		return err
	}
	fmt.Printf("option created: %s\n", id)
	return nil
}

func runCreateSwap(ctx context.Context, logger *log.Logger, argv []string) error {
	fs := flag.NewFlagSet("create-swap", flag.ExitOnError)
	common := registerCommon(fs)
	collateralAsset := fs.String("collateral-asset", "", "Collateral asset id (64 hex chars)")
	settlementAsset := fs.String("settlement-asset", "", "Settlement asset id (64 hex chars)")
	collateralAmount := fs.Uint64("collateral-amount", 0, "Collateral amount offered")
	settlementAmount := fs.Uint64("settlement-amount", 0, "Settlement amount requested")
	changeEntropy := fs.String("change-entropy", "", "Change token entropy (64 hex chars)")
	outpointStr := fs.String("outpoint", "", "Funding outpoint txid:vout")
	expiry := fs.Uint64("expiry", 0, "Advertisement expiry (unix seconds)")
	fs.Parse(argv)

	args := domain.SwapArgs{
		CollateralAmount: *collateralAmount,
		SettlementAmount: *settlementAmount,
	}
	var err error
	if args.CollateralAssetID, err = parseAssetID(*collateralAsset); err != nil {
		return fmt.Errorf("collateral-asset: %w", err)
	}
	if args.SettlementAssetID, err = parseAssetID(*settlementAsset); err != nil {
		return fmt.Errorf("settlement-asset: %w", err)
	}
	if args.ChangeEntropy, err = parseHex32(*changeEntropy); err != nil {
		return fmt.Errorf("change-entropy: %w", err)
	}

	outpoint, err := domain.ParseOutPoint(*outpointStr)
	if err != nil {
		return fmt.Errorf("outpoint: %w", err)
	}

	p, cleanup, err := setup(ctx, logger, common)
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := p.CreateSwap(ctx, args, outpoint, *expiry)
	if err != nil {
		return err
	}
	fmt.Printf("swap created: %s\n", id)
	return nil
}

func runListOptions(ctx context.Context, logger *log.Logger, argv []string) error {
	fs := flag.NewFlagSet("list-options", flag.ExitOnError)
	common := registerCommon(fs)
	query := registerListQuery(fs)
	fs.Parse(argv)

	p, cleanup, err := setup(ctx, logger, common)
	if err != nil {
		return err
	}
	defer cleanup()

	options, err := p.ListOptions(ctx, query.build())
	if err != nil {
		return err
	}
	if len(options) == 0 {
		fmt.Println("no live options")
		return nil
	}
	for _, o := range options {
		fmt.Printf("option %s  collateral/contract %d  settlement/contract %d  expires %s\n",
			o.EventID, o.Args.CollateralPerContract, o.Args.SettlementPerContract,
			time.Unix(int64(o.Expiry), 0).UTC().Format(time.RFC3339))
	}
	return nil
}

func runListSwaps(ctx context.Context, logger *log.Logger, argv []string) error {
	fs := flag.NewFlagSet("list-swaps", flag.ExitOnError)
	common := registerCommon(fs)
	query := registerListQuery(fs)
	fs.Parse(argv)

	p, cleanup, err := setup(ctx, logger, common)
	if err != nil {
		return err
	}
	defer cleanup()

	swaps, err := p.ListSwaps(ctx, query.build())
	if err != nil {
		return err
	}
	if len(swaps) == 0 {
		fmt.Println("no live swaps")
		return nil
	}
	for _, s := range swaps {
		fmt.Printf("swap %s  offers %d  asks %d  expires %s\n",
			s.EventID, s.Args.CollateralAmount, s.Args.SettlementAmount,
			time.Unix(int64(s.Expiry), 0).UTC().Format(time.RFC3339))
	}
	return nil
}

func runReportAction(ctx context.Context, logger *log.Logger, argv []string) error {
	fs := flag.NewFlagSet("report-action", flag.ExitOnError)
	common := registerCommon(fs)
	contractID := fs.String("contract", "", "Contract advertisement event id")
	actionStr := fs.String("action", "", "Action type (e.g. option_funded, swap_exercised)")
	outpointStr := fs.String("outpoint", "", "Resulting outpoint txid:vout")
	fs.Parse(argv)

	action, err := domain.ParseActionType(*actionStr)
	if err != nil {
		return err
	}
	outpoint, err := domain.ParseOutPoint(*outpointStr)
	if err != nil {
		return fmt.Errorf("outpoint: %w", err)
	}

	p, cleanup, err := setup(ctx, logger, common)
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := p.ReportAction(ctx, *contractID, action, outpoint)
	if err != nil {
		return err
	}
	fmt.Printf("action reported: %s\n", id)
	return nil
}

func runActions(ctx context.Context, logger *log.Logger, argv []string) error {
	fs := flag.NewFlagSet("actions", flag.ExitOnError)
	common := registerCommon(fs)
	contractID := fs.String("contract", "", "Contract advertisement event id")
	fs.Parse(argv)

	p, cleanup, err := setup(ctx, logger, common)
	if err != nil {
		return err
	}
	defer cleanup()

	actions, err := p.ActionsForEvent(ctx, *contractID)
	if err != nil {
		return err
	}
	if len(actions) == 0 {
		fmt.Println("no reported actions")
		return nil
	}
	for _, a := range actions {
		fmt.Printf("%s  %s  outpoint %s  by %s\n",
			a.CreatedAt.Time().UTC().Format(time.RFC3339), a.Action, a.Outpoint, a.Pubkey)
	}
	return nil
}

func runStatus(ctx context.Context, logger *log.Logger, argv []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	common := registerCommon(fs)
	contractID := fs.String("contract", "", "Contract advertisement event id")
	fs.Parse(argv)

	p, cleanup, err := setup(ctx, logger, common)
	if err != nil {
		return err
	}
	defer cleanup()

	status, err := p.ContractStatus(ctx, *contractID)
	if err != nil {
		return err
	}
	fmt.Printf("contract %s: %s\n", *contractID, status)
	return nil
}
