// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"log/slog"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for state and log databases",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.IntFlag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: int(slog.LevelInfo),
		Usage: "log level (-4 debug, 0 info, 4 warn, 8 error)",
	}
	logFileFlag = cli.StringFlag{
		Name:  "log-file",
		Usage: "also write logs to this file, rotated",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "YAML file with flag defaults",
	}
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "private key file (defaults to <data-dir>/master.key)",
	}
	nodeFlag = cli.StringFlag{
		Name:  "node",
		Usage: "API URL of a node to submit transactions to; raw hex is printed if empty",
	}

	// transaction flags
	nonceFlag = cli.Uint64Flag{
		Name:  "nonce",
		Usage: "transaction nonce (defaults to current unix nanoseconds)",
	}
	saltFlag = cli.Uint64Flag{
		Name:  "salt",
		Usage: "salt for derived mint and account addresses",
	}
	decimalsFlag = cli.UintFlag{
		Name:  "decimals",
		Usage: "mint decimals",
	}
	freezeAuthorityFlag = cli.StringFlag{
		Name:  "freeze-authority",
		Usage: "address allowed to freeze accounts of the mint",
	}
	mintFlag = cli.StringFlag{
		Name:  "mint",
		Usage: "mint address",
	}
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "token account owner",
	}
	accountFlag = cli.StringFlag{
		Name:  "account",
		Usage: "token account address",
	}
	amountFlag = cli.Uint64Flag{
		Name:  "amount",
		Usage: "token amount",
	}
	idFlag = cli.StringFlag{
		Name:  "id",
		Usage: "auction id (create picks a random one if empty)",
	}
	itemHolderFlag = cli.StringFlag{
		Name:  "item-holder",
		Usage: "item escrow account owned by the auction authority",
	}
	currencyHolderFlag = cli.StringFlag{
		Name:  "currency-holder",
		Usage: "currency escrow account owned by the auction authority",
	}
	priceFlag = cli.Uint64Flag{
		Name:  "price",
		Usage: "start price for create, bid price for bid",
	}
	fundingFlag = cli.StringFlag{
		Name:  "funding",
		Usage: "account the bid is paid from",
	}
	refundReceiverFlag = cli.StringFlag{
		Name:  "refund-receiver",
		Usage: "expected account of the current highest bid, checked if set",
	}
	itemReceiverFlag = cli.StringFlag{
		Name:  "item-receiver",
		Usage: "account the item is released to",
	}
	currencyReceiverFlag = cli.StringFlag{
		Name:  "currency-receiver",
		Usage: "account the winning price is released to",
	}
)
