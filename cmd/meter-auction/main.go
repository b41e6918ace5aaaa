// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/meterio/meter-auction/api"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
	log       = slog.Default().With("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "meter-auction",
		Usage:     "Single item auction escrow node",
		Copyright: "2020 Meter Foundation <https://meter.io/>",
		Flags: []cli.Flag{
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			verbosityFlag,
			logFileFlag,
			configFlag,
			keyFlag,
			nodeFlag,
		},
		Before: func(ctx *cli.Context) error {
			if path := ctx.GlobalString(configFlag.Name); path != "" {
				values, err := loadConfig(path)
				if err != nil {
					return err
				}
				if err := applyConfig(ctx, values, ctx.App.Flags); err != nil {
					return err
				}
			}
			initLogger(ctx)
			return nil
		},
		After: func(ctx *cli.Context) error {
			closeLogger()
			return nil
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "key",
				Usage: "manage the signing key",
				Subcommands: []cli.Command{
					{Name: "new", Usage: "generate a new key", Action: keyNewAction},
					{Name: "address", Usage: "print the key address", Action: keyAddressAction},
					{Name: "export", Usage: "export the key as keystore JSON", Action: keyExportAction},
					{Name: "import", Usage: "import a key from keystore JSON on stdin", Action: keyImportAction},
				},
			},
			{
				Name:      "authority",
				Usage:     "print the auction authority for a seller",
				ArgsUsage: "<seller>",
				Action:    authorityAction,
			},
			{
				Name:      "inspect",
				Usage:     "dump an auction record from the local data dir",
				ArgsUsage: "<auction id>",
				Action:    inspectAction,
			},
			txCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	defer func() { log.Info("exited") }()

	dataDir := makeDataDir(ctx)
	log.Info("starting", "version", fullVersion(), "dataDir", dataDir)

	mainDB := openMainDB(dataDir)
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	logDB := openLogDB(dataDir)
	defer func() { log.Info("closing log database..."); logDB.Close() }()

	engine := script.NewScriptEngine(state.New(mainDB), logDB)
	defer engine.Close()

	apiHandler, apiCloser := api.New(engine, ctx.GlobalString(apiCorsFlag.Name))
	defer func() { log.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser := startAPIServer(ctx, apiHandler)
	defer func() { log.Info("stopping API server..."); srvCloser() }()

	log.Info("API portal", "url", apiURL)
	go checkClockOffset()

	<-exitSignal.Done()
	return nil
}

func keyNewAction(ctx *cli.Context) error {
	path := keyPath(ctx)
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("key file %v already exists", path)
	}
	key := loadSigningKey(ctx)
	fmt.Println("Key created:", keyAddress(key))
	return nil
}

func keyAddressAction(ctx *cli.Context) error {
	key, err := crypto.LoadECDSA(keyPath(ctx))
	if err != nil {
		return errors.WithMessage(err, "load key")
	}
	fmt.Println(keyAddress(key))
	return nil
}

func keyExportAction(ctx *cli.Context) error {
	key, err := crypto.LoadECDSA(keyPath(ctx))
	if err != nil {
		return errors.WithMessage(err, "load key")
	}

	password, err := readPasswordFromNewTTY("Enter passphrase: ")
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("non-empty passphrase required")
	}
	confirm, err := readPasswordFromNewTTY("Confirm passphrase: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passphrase confirmation mismatch")
	}

	keyjson, err := keystore.EncryptKey(&keystore.Key{
		PrivateKey: key,
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		Id:         uuid.New()},
		password, keystore.StandardScryptN, keystore.StandardScryptP)
	if err != nil {
		return err
	}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Println("=== JSON keystore ===")
	}
	_, err = fmt.Println(string(keyjson))
	return err
}

func keyImportAction(ctx *cli.Context) error {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Println("Input JSON keystore (end with ^d):")
	}
	keyjson, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(keyjson, &map[string]interface{}{}); err != nil {
		return errors.WithMessage(err, "unmarshal")
	}
	password, err := readPasswordFromNewTTY("Enter passphrase: ")
	if err != nil {
		return err
	}
	key, err := keystore.DecryptKey(keyjson, password)
	if err != nil {
		return errors.WithMessage(err, "decrypt")
	}

	path := keyPath(ctx)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	if err := crypto.SaveECDSA(path, key.PrivateKey); err != nil {
		return err
	}
	fmt.Println("Key imported:", meter.Address(key.Address))
	return nil
}

func authorityAction(ctx *cli.Context) error {
	seller, err := meter.ParseAddress(ctx.Args().First())
	if err != nil {
		return errors.WithMessage(err, "seller")
	}
	authority, bump, err := auction.DeriveAuthority(seller)
	if err != nil {
		return err
	}
	fmt.Println("authority:", authority)
	fmt.Println("bump:", bump)
	return nil
}

func inspectAction(ctx *cli.Context) error {
	id, err := meter.ParseBytes32(ctx.Args().First())
	if err != nil {
		return errors.WithMessage(err, "auction id")
	}
	dir := filepath.Join(ctx.GlobalString(dataDirFlag.Name), "main.db")
	db, err := lvldb.New(dir, lvldb.Options{})
	if err != nil {
		return errors.WithMessagef(err, "open main database [%v]", dir)
	}
	defer db.Close()

	record, err := state.New(db).GetAuction(id)
	if err != nil {
		return err
	}
	spew.Dump(record)
	return nil
}
