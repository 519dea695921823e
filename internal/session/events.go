package session

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/heronft/heronft-client/internal/chains"
	"github.com/heronft/heronft-client/internal/state"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

func (m *Manager) subscribe() {
	m.subOnce.Do(func() {
		accCh := make(chan []common.Address, 16)
		chainCh := make(chan *big.Int, 16)
		accSub := m.gw.SubscribeAccountsChanged(accCh)
		chainSub := m.gw.SubscribeChainChanged(chainCh)
		m.subs = append(m.subs, accSub, chainSub)

		m.wg.Add(2)
		go m.receive(accCh, chainCh, accSub.Err(), chainSub.Err())
		go m.handleQueued()
	})
}

// receive moves feed deliveries into the queue.
func (m *Manager) receive(accCh <-chan []common.Address, chainCh <-chan *big.Int, accErr, chainErr <-chan error) {
	defer m.wg.Done()
	for {
		select {
		case accounts := <-accCh:
			m.queue.push(walletEvent{accounts: accounts})
		case id := <-chainCh:
			m.queue.push(walletEvent{chainID: id, isChain: true})
		case err := <-accErr:
			if err != nil {
				log.Error("accountsChanged subscription failed", "error", err)
			}
			return
		case err := <-chainErr:
			if err != nil {
				log.Error("chainChanged subscription failed", "error", err)
			}
			return
		case <-m.ctx.Done():
			return
		}
	}
}

// handleQueued applies queued events one at a time, each under the token.
func (m *Manager) handleQueued() {
	defer m.wg.Done()
	for {
		select {
		case <-m.queue.wake:
		case <-m.ctx.Done():
			return
		}

		for {
			ev, ok := m.queue.pop()
			if !ok {
				break
			}
			if err := m.token.Acquire(m.ctx); err != nil {
				return
			}
			m.handleEvent(ev)
			m.token.Release()
		}
	}
}

func (m *Manager) handleEvent(ev walletEvent) {
	if !m.isListening() {
		return
	}
	if ev.isChain {
		m.onChainChanged(ev.chainID)
		return
	}
	m.onAccountsChanged(ev.accounts)
}

func (m *Manager) onAccountsChanged(accounts []common.Address) {
	m.metrics.SessionEvent("accounts_changed")
	if len(accounts) == 0 {
		log.Info("wallet reported no accounts; disconnecting")
		m.disconnectLocked()
		return
	}

	log.Info("wallet account changed", "account", accounts[0].Hex())
	if err := m.establishLocked(m.ctx, accounts[0]); err != nil {
		log.Warn("re-establish after account change failed", "error", err)
	}
}

func (m *Manager) onChainChanged(chainID *big.Int) {
	m.metrics.SessionEvent("chain_changed")
	if !chains.SameChain(chainID, m.cfg.RequiredChainID) {
		log.Warn("wallet left the required network", "chainId", chains.ChainIDHex(chainID))
		m.disconnectLocked()
		m.status(state.StatusWarning, "Please switch to "+m.cfg.NetworkLabel+" network.")
		return
	}

	cur := m.store.Snapshot().Session
	if cur.Active() && chains.SameChain(cur.ChainID, chainID) {
		return
	}
	if err := m.probeLocked(m.ctx); err != nil {
		log.Warn("re-validate after chain change failed", "error", err)
	}
}
