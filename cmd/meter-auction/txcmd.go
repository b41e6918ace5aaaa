// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/script/token"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
)

var toFlag = cli.StringFlag{
	Name:  "to",
	Usage: "recipient token account",
}

// bodyBuilder makes a script body signed by signer.
type bodyBuilder func(ctx *cli.Context, signer meter.Address) (interface{}, error)

var txCommand = cli.Command{
	Name:  "tx",
	Usage: "build, sign and submit transactions",
	Subcommands: []cli.Command{
		{
			Name:   "mint",
			Usage:  "create a mint with the key as authority",
			Flags:  []cli.Flag{saltFlag, decimalsFlag, freezeAuthorityFlag, nonceFlag},
			Action: txAction(mintBody),
		},
		{
			Name:   "account",
			Usage:  "open a token account",
			Flags:  []cli.Flag{mintFlag, ownerFlag, saltFlag, nonceFlag},
			Action: txAction(accountBody),
		},
		{
			Name:   "mint-to",
			Usage:  "mint tokens into an account",
			Flags:  []cli.Flag{mintFlag, accountFlag, amountFlag, nonceFlag},
			Action: txAction(mintToBody),
		},
		{
			Name:   "transfer",
			Usage:  "move tokens between accounts of the same mint",
			Flags:  []cli.Flag{accountFlag, toFlag, amountFlag, nonceFlag},
			Action: txAction(transferBody),
		},
		{
			Name:   "freeze",
			Usage:  "freeze a token account",
			Flags:  []cli.Flag{accountFlag, nonceFlag},
			Action: txAction(freezeBody(token.OP_FREEZE)),
		},
		{
			Name:   "thaw",
			Usage:  "thaw a frozen token account",
			Flags:  []cli.Flag{accountFlag, nonceFlag},
			Action: txAction(freezeBody(token.OP_THAW)),
		},
		{
			Name:   "create",
			Usage:  "create an auction with the key as seller",
			Flags:  []cli.Flag{idFlag, itemHolderFlag, currencyHolderFlag, priceFlag, nonceFlag},
			Action: txAction(createBody),
		},
		{
			Name:   "bid",
			Usage:  "bid on an auction with the key as bidder",
			Flags:  []cli.Flag{idFlag, fundingFlag, refundReceiverFlag, priceFlag, nonceFlag},
			Action: txAction(bidBody),
		},
		{
			Name:   "close",
			Usage:  "close an auction with the key as seller",
			Flags:  []cli.Flag{idFlag, itemReceiverFlag, currencyReceiverFlag, nonceFlag},
			Action: txAction(closeBody),
		},
	},
}

func txAction(build bodyBuilder) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		key := loadSigningKey(ctx)
		body, err := build(ctx, keyAddress(key))
		if err != nil {
			return err
		}
		data, err := script.EncodeScriptData(body)
		if err != nil {
			return err
		}
		nonce := ctx.Uint64(nonceFlag.Name)
		if nonce == 0 {
			nonce = uint64(time.Now().UnixNano())
		}
		trx, err := tx.New(nonce, data).Sign(key)
		if err != nil {
			return errors.WithMessage(err, "sign")
		}
		raw, err := trx.Encode()
		if err != nil {
			return err
		}

		node := ctx.GlobalString(nodeFlag.Name)
		if node == "" {
			fmt.Println(hexutil.Encode(raw))
			return nil
		}
		receipt, err := submitTx(node, raw)
		if receipt != nil {
			out, _ := json.MarshalIndent(receipt, "", "  ")
			fmt.Println(string(out))
		}
		return err
	}
}

func submitTx(node string, raw []byte) (*transactions.Receipt, error) {
	reqBody, err := json.Marshal(&transactions.RawTx{Raw: hexutil.Encode(raw)})
	if err != nil {
		return nil, err
	}
	client := http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(strings.TrimSuffix(node, "/")+"/transactions", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return nil, errors.WithMessage(err, "submit")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var receipt transactions.Receipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		return nil, errors.Errorf("%v: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	if resp.StatusCode != http.StatusOK {
		return &receipt, errors.Errorf("%v: %v", resp.Status, receipt.Error)
	}
	return &receipt, nil
}

func parseAddressFlag(ctx *cli.Context, name string, required bool) (meter.Address, error) {
	s := ctx.String(name)
	if s == "" {
		if required {
			return meter.Address{}, errors.Errorf("-%v required", name)
		}
		return meter.Address{}, nil
	}
	addr, err := meter.ParseAddress(s)
	if err != nil {
		return meter.Address{}, errors.WithMessagef(err, "-%v", name)
	}
	return addr, nil
}

func parseAuctionID(ctx *cli.Context) (meter.Bytes32, error) {
	s := ctx.String(idFlag.Name)
	if s == "" {
		return meter.Bytes32{}, errors.Errorf("-%v required", idFlag.Name)
	}
	id, err := meter.ParseBytes32(s)
	if err != nil {
		return meter.Bytes32{}, errors.WithMessagef(err, "-%v", idFlag.Name)
	}
	return id, nil
}

func newAuctionID() meter.Bytes32 {
	u := uuid.New()
	return meter.Blake2b(u[:])
}

func mintBody(ctx *cli.Context, signer meter.Address) (interface{}, error) {
	freezeAuthority, err := parseAddressFlag(ctx, freezeAuthorityFlag.Name, false)
	if err != nil {
		return nil, err
	}
	decimals := ctx.Uint(decimalsFlag.Name)
	if decimals > 255 {
		return nil, errors.Errorf("-%v out of range", decimalsFlag.Name)
	}
	salt := ctx.Uint64(saltFlag.Name)
	fmt.Fprintln(os.Stderr, "mint:", meter.MintAddress(signer, salt))
	return &token.TokenBody{
		Opcode:          token.OP_INIT_MINT,
		Authority:       signer,
		FreezeAuthority: freezeAuthority,
		Decimals:        uint8(decimals),
		Salt:            salt,
	}, nil
}

// accountBody opens an account for -owner, or for the signer.
func accountBody(ctx *cli.Context, signer meter.Address) (interface{}, error) {
	mint, err := parseAddressFlag(ctx, mintFlag.Name, true)
	if err != nil {
		return nil, err
	}
	owner, err := parseAddressFlag(ctx, ownerFlag.Name, false)
	if err != nil {
		return nil, err
	}
	if owner.IsZero() {
		owner = signer
	}
	salt := ctx.Uint64(saltFlag.Name)
	fmt.Fprintln(os.Stderr, "account:", meter.TokenAccountAddress(owner, mint, salt))
	return &token.TokenBody{
		Opcode: token.OP_INIT_ACCOUNT,
		Mint:   mint,
		Owner:  owner,
		Salt:   salt,
	}, nil
}

func mintToBody(ctx *cli.Context, signer meter.Address) (interface{}, error) {
	mint, err := parseAddressFlag(ctx, mintFlag.Name, true)
	if err != nil {
		return nil, err
	}
	account, err := parseAddressFlag(ctx, accountFlag.Name, true)
	if err != nil {
		return nil, err
	}
	return &token.TokenBody{
		Opcode:    token.OP_MINT_TO,
		Authority: signer,
		Mint:      mint,
		Account:   account,
		Amount:    ctx.Uint64(amountFlag.Name),
	}, nil
}

func transferBody(ctx *cli.Context, signer meter.Address) (interface{}, error) {
	account, err := parseAddressFlag(ctx, accountFlag.Name, true)
	if err != nil {
		return nil, err
	}
	to, err := parseAddressFlag(ctx, toFlag.Name, true)
	if err != nil {
		return nil, err
	}
	return &token.TokenBody{
		Opcode:  token.OP_TRANSFER,
		Account: account,
		To:      to,
		Amount:  ctx.Uint64(amountFlag.Name),
	}, nil
}

func freezeBody(op uint32) bodyBuilder {
	return func(ctx *cli.Context, signer meter.Address) (interface{}, error) {
		account, err := parseAddressFlag(ctx, accountFlag.Name, true)
		if err != nil {
			return nil, err
		}
		return &token.TokenBody{
			Opcode:    op,
			Authority: signer,
			Account:   account,
		}, nil
	}
}

func createBody(ctx *cli.Context, signer meter.Address) (interface{}, error) {
	id := newAuctionID()
	if ctx.String(idFlag.Name) != "" {
		var err error
		if id, err = parseAuctionID(ctx); err != nil {
			return nil, err
		}
	}
	itemHolder, err := parseAddressFlag(ctx, itemHolderFlag.Name, true)
	if err != nil {
		return nil, err
	}
	currencyHolder, err := parseAddressFlag(ctx, currencyHolderFlag.Name, true)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(os.Stderr, "auction:", id)
	return auction.NewCreateBody(id, signer, itemHolder, currencyHolder, ctx.Uint64(priceFlag.Name)), nil
}

func bidBody(ctx *cli.Context, signer meter.Address) (interface{}, error) {
	id, err := parseAuctionID(ctx)
	if err != nil {
		return nil, err
	}
	funding, err := parseAddressFlag(ctx, fundingFlag.Name, true)
	if err != nil {
		return nil, err
	}
	refundReceiver, err := parseAddressFlag(ctx, refundReceiverFlag.Name, false)
	if err != nil {
		return nil, err
	}
	return auction.NewBidBody(id, signer, funding, refundReceiver, ctx.Uint64(priceFlag.Name)), nil
}

func closeBody(ctx *cli.Context, signer meter.Address) (interface{}, error) {
	id, err := parseAuctionID(ctx)
	if err != nil {
		return nil, err
	}
	itemReceiver, err := parseAddressFlag(ctx, itemReceiverFlag.Name, true)
	if err != nil {
		return nil, err
	}
	currencyReceiver, err := parseAddressFlag(ctx, currencyReceiverFlag.Name, true)
	if err != nil {
		return nil, err
	}
	return auction.NewCloseBody(id, signer, itemReceiver, currencyReceiver), nil
}
