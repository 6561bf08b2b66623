package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/offer"
	"github.com/chainsafe/swap-coordinator/pkg/secret"
	"github.com/chainsafe/swap-coordinator/pkg/swapclient"
)

type command struct {
	client *swapclient.Client
	out    io.Writer
	errOut io.Writer
	format format
}

func (c *command) dispatch(ctx context.Context, name string, args []string) error {
	switch name {
	case "create":
		return c.create(ctx, args)
	case "accept":
		return c.accept(ctx, args)
	case "lock":
		return c.lock(ctx, args)
	case "claim":
		return c.claim(ctx, args)
	case "refund":
		return c.refund(ctx, args)
	case "expire":
		return c.expire(ctx, args)
	case "get":
		return c.get(ctx, args)
	case "list":
		return c.list(ctx, args)
	case "secret":
		return c.secret(args)
	default:
		fmt.Fprintf(c.errOut, "unknown command %q\n", name)
		return errUsage
	}
}

func (c *command) flagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	fs.Usage = func() {
		fmt.Fprintf(c.errOut, "usage: swapctl %s %s\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs parses fs and returns the positional offer ID when wantID is set. Flags may
// appear before or after the ID.
func parseArgs(fs *flag.FlagSet, args []string, wantID bool) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", errUsage
	}
	var id string
	if wantID && fs.NArg() > 0 {
		id = fs.Arg(0)
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return "", errUsage
		}
	}
	switch {
	case wantID && id == "":
		fs.Usage()
		return "", errUsage
	case fs.NArg() > 0:
		fmt.Fprintf(fs.Output(), "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return "", errUsage
	}
	return id, nil
}

func (c *command) create(ctx context.Context, args []string) error {
	fs := c.flagSet("create", "-from CHAIN -to CHAIN -amount-from N -amount-to N -token-from T -token-to T -creator CHAIN=ADDR...")
	terms := &offer.Terms{CreatorAddresses: offer.Addresses{}}
	fs.Var((*chainFlag)(&terms.ChainFrom), "from", "Chain the creator gives on")
	fs.Var((*chainFlag)(&terms.ChainTo), "to", "Chain the creator receives on")
	fs.Var((*decimalFlag)(&terms.AmountFrom), "amount-from", "Amount the creator gives")
	fs.Var((*decimalFlag)(&terms.AmountTo), "amount-to", "Amount the creator receives")
	fs.StringVar(&terms.TokenFrom, "token-from", "", "Token the creator gives")
	fs.StringVar(&terms.TokenTo, "token-to", "", "Token the creator receives")
	fs.Var(addressesFlag(terms.CreatorAddresses), "creator", "Creator address as chain=address, once per chain")
	fs.StringVar(&terms.IdempotencyKey, "key", "", "Idempotency key; repeating a create with the same key returns the same offer")
	if _, err := parseArgs(fs, args, false); err != nil {
		return err
	}
	return c.print(c.client.CreateOffer(ctx, terms))
}

func (c *command) accept(ctx context.Context, args []string) error {
	fs := c.flagSet("accept", "-taker CHAIN=ADDR... -hash HEX <offer-id>")
	req := &offer.AcceptRequest{TakerAddresses: offer.Addresses{}}
	fs.Var(addressesFlag(req.TakerAddresses), "taker", "Taker address as chain=address, once per chain")
	fs.Var((*hashFlag)(&req.SecretHash), "hash", "SHA-256 of the taker's secret, hex")
	id, err := parseArgs(fs, args, true)
	if err != nil {
		return err
	}
	return c.print(c.client.AcceptOffer(ctx, id, req))
}

func (c *command) lock(ctx context.Context, args []string) error {
	fs := c.flagSet("lock", "-side SIDE -chain CHAIN -ref REF -sender ADDR -receiver ADDR -token T -amount N -hash HEX -expires RFC3339 <offer-id>")
	var side offer.Side
	ref := &offer.HTLCRef{}
	fs.Var((*sideFlag)(&side), "side", "Side that funded the HTLC: creator or taker")
	fs.Var((*chainFlag)(&ref.Chain), "chain", "Chain the HTLC lives on")
	fs.StringVar(&ref.Ref, "ref", "", "HTLC contract address or id")
	fs.StringVar(&ref.Sender, "sender", "", "Address that funded the HTLC")
	fs.StringVar(&ref.Receiver, "receiver", "", "Address that may claim the HTLC")
	fs.StringVar(&ref.Token, "token", "", "Locked token")
	fs.Var((*decimalFlag)(&ref.Amount), "amount", "Locked amount")
	fs.Var((*hashFlag)(&ref.HashLock), "hash", "Hashlock, hex")
	fs.Var((*timeFlag)(&ref.ExpiresAt), "expires", "HTLC expiry, RFC3339")
	id, err := parseArgs(fs, args, true)
	if err != nil {
		return err
	}
	return c.print(c.client.RecordLock(ctx, id, side, ref))
}

func (c *command) claim(ctx context.Context, args []string) error {
	fs := c.flagSet("claim", "-side SIDE [-preimage HEX] <offer-id>")
	var side offer.Side
	var preimage secret.Preimage
	fs.Var((*sideFlag)(&side), "side", "Side that claimed: creator claims the taker leg, taker claims the creator leg")
	fs.Var((*preimageFlag)(&preimage), "preimage", "Revealed secret, hex; required for the creator claim")
	id, err := parseArgs(fs, args, true)
	if err != nil {
		return err
	}
	return c.print(c.client.RecordClaim(ctx, id, side, preimage))
}

func (c *command) refund(ctx context.Context, args []string) error {
	fs := c.flagSet("refund", "-side SIDE -requester ADDR <offer-id>")
	var side offer.Side
	fs.Var((*sideFlag)(&side), "side", "Side whose leg was refunded")
	requester := fs.String("requester", "", "Address of the leg owner")
	id, err := parseArgs(fs, args, true)
	if err != nil {
		return err
	}
	return c.print(c.client.RecordRefund(ctx, id, side, *requester))
}

func (c *command) expire(ctx context.Context, args []string) error {
	fs := c.flagSet("expire", "-side SIDE <offer-id>")
	var side offer.Side
	fs.Var((*sideFlag)(&side), "side", "Side reporting the expiry")
	id, err := parseArgs(fs, args, true)
	if err != nil {
		return err
	}
	return c.print(c.client.RecordExpiry(ctx, id, side))
}

func (c *command) get(ctx context.Context, args []string) error {
	fs := c.flagSet("get", "<offer-id>")
	id, err := parseArgs(fs, args, true)
	if err != nil {
		return err
	}
	return c.print(c.client.QueryOffer(ctx, id))
}

func (c *command) list(ctx context.Context, args []string) error {
	fs := c.flagSet("list", "[-status STATUS[,STATUS]] [-limit N] [-offset N]")
	filter := &offer.Filter{}
	fs.Var((*statusesFlag)(&filter.Statuses), "status", "Only offers in these statuses, comma separated or repeated")
	fs.IntVar(&filter.Limit, "limit", 0, "Page size")
	fs.IntVar(&filter.Offset, "offset", 0, "Offers to skip")
	if _, err := parseArgs(fs, args, false); err != nil {
		return err
	}
	snaps, err := c.client.ListOffers(ctx, filter)
	if err != nil {
		return err
	}
	return render(c.out, c.format, snaps)
}

// secretPair is what the secret command prints. Only the taker keeps the preimage.
type secretPair struct {
	Preimage secret.Preimage `json:"preimage"`
	Hash     secret.Hash     `json:"hash"`
}

func (c *command) secret(args []string) error {
	fs := c.flagSet("secret", "[-preimage HEX]")
	var preimage secret.Preimage
	fs.Var((*preimageFlag)(&preimage), "preimage", "Hash an existing preimage instead of generating one")
	if _, err := parseArgs(fs, args, false); err != nil {
		return err
	}

	pair := secretPair{Preimage: preimage}
	if len(preimage) == 0 {
		var err error
		if pair.Preimage, pair.Hash, err = secret.New(); err != nil {
			return err
		}
	} else {
		pair.Hash = secret.Sum(preimage)
	}
	return render(c.out, c.format, pair)
}

func (c *command) print(snap *offer.Snapshot, err error) error {
	if err != nil {
		return err
	}
	return render(c.out, c.format, snap)
}

type addressesFlag offer.Addresses

func (f addressesFlag) String() string {
	parts := make([]string, 0, len(f))
	for id, addr := range f {
		parts = append(parts, string(id)+"="+addr)
	}
	return strings.Join(parts, ",")
}

func (f addressesFlag) Set(v string) error {
	id, addr, ok := strings.Cut(v, "=")
	if !ok || id == "" || addr == "" {
		return fmt.Errorf("expected chain=address, got %q", v)
	}
	f[chain.ID(strings.ToLower(id))] = addr
	return nil
}

type chainFlag chain.ID

func (f *chainFlag) String() string { return string(*f) }

func (f *chainFlag) Set(v string) error {
	*f = chainFlag(strings.ToLower(strings.TrimSpace(v)))
	return nil
}

type decimalFlag decimal.Decimal

func (f *decimalFlag) String() string { return decimal.Decimal(*f).String() }

func (f *decimalFlag) Set(v string) error {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return err
	}
	*f = decimalFlag(d)
	return nil
}

type hashFlag secret.Hash

func (f *hashFlag) String() string { return secret.Hash(*f).String() }

func (f *hashFlag) Set(v string) error {
	h, err := secret.ParseHash(v)
	if err != nil {
		return err
	}
	*f = hashFlag(h)
	return nil
}

type preimageFlag secret.Preimage

func (f *preimageFlag) String() string { return secret.Preimage(*f).String() }

func (f *preimageFlag) Set(v string) error {
	p, err := secret.ParsePreimage(v)
	if err != nil {
		return err
	}
	*f = preimageFlag(p)
	return nil
}

type sideFlag offer.Side

func (f *sideFlag) String() string { return string(*f) }

func (f *sideFlag) Set(v string) error {
	side, err := offer.ParseSide(v)
	if err != nil {
		return err
	}
	*f = sideFlag(side)
	return nil
}

type timeFlag time.Time

func (f *timeFlag) String() string {
	if time.Time(*f).IsZero() {
		return ""
	}
	return time.Time(*f).Format(time.RFC3339)
}

func (f *timeFlag) Set(v string) error {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return err
	}
	*f = timeFlag(t)
	return nil
}

type statusesFlag []offer.Status

func (f *statusesFlag) String() string {
	parts := make([]string, len(*f))
	for i, st := range *f {
		parts[i] = string(st)
	}
	return strings.Join(parts, ",")
}

func (f *statusesFlag) Set(v string) error {
	for _, raw := range strings.Split(v, ",") {
		st, err := offer.ParseStatus(raw)
		if err != nil {
			return err
		}
		*f = append(*f, st)
	}
	return nil
}
