// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/script/token"
)

const (
	TOKEN_MODULE_NAME = string("token")
	TOKEN_MODULE_ID   = uint32(1)

	AUCTION_MODULE_NAME = string("auction")
	AUCTION_MODULE_ID   = uint32(2)
)

func ModuleTokenInit(se *ScriptEngine) *token.Token {
	t := token.NewToken()
	mod := &Module{
		modName:    TOKEN_MODULE_NAME,
		modID:      TOKEN_MODULE_ID,
		modHandler: t.Handle,
	}
	if err := se.modReg.Register(TOKEN_MODULE_ID, mod); err != nil {
		panic("register token module failed")
	}
	se.logger.Debug("module registered", "name", mod.modName, "id", mod.modID)
	return t
}

func ModuleAuctionInit(se *ScriptEngine) *auction.Auction {
	a := auction.NewAuction()
	mod := &Module{
		modName:    AUCTION_MODULE_NAME,
		modID:      AUCTION_MODULE_ID,
		modHandler: a.Handle,
	}
	if err := se.modReg.Register(AUCTION_MODULE_ID, mod); err != nil {
		panic("register auction module failed")
	}
	se.logger.Debug("module registered", "name", mod.modName, "id", mod.modID)
	return a
}
