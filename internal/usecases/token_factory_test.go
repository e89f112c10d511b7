package usecases

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
	"tburn-scan.backend/internal/domain/entities"
	domainerrors "tburn-scan.backend/internal/domain/errors"
	"tburn-scan.backend/pkg/tburnaddr"
)

type fakeChainRPC struct {
	estimateGas    uint64
	estimateGasErr error
	gasPrice       *big.Int
	gasPriceErr    error
	gasTip         *big.Int
	gasTipErr      error
	blockNumber    uint64
	blockNumberErr error
	receipt        *types.Receipt
	receiptErr     error
	callView       func(ctx context.Context, to string, data []byte) ([]byte, error)
}

func (f *fakeChainRPC) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return f.estimateGas, f.estimateGasErr
}

func (f *fakeChainRPC) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return f.gasPrice, f.gasPriceErr
}

func (f *fakeChainRPC) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return f.gasTip, f.gasTipErr
}

func (f *fakeChainRPC) BlockNumber(ctx context.Context) (uint64, error) {
	return f.blockNumber, f.blockNumberErr
}

func (f *fakeChainRPC) TransactionReceipt(ctx context.Context, txHash string) (*types.Receipt, error) {
	return f.receipt, f.receiptErr
}

func (f *fakeChainRPC) CallView(ctx context.Context, to string, data []byte) ([]byte, error) {
	if f.callView != nil {
		return f.callView(ctx, to, data)
	}
	return nil, errors.New("no call view configured")
}

type fakeRegistrar struct {
	tokens []*entities.RegisteredToken
	err    error
}

func (f *fakeRegistrar) RegisterToken(ctx context.Context, token *entities.RegisteredToken) error {
	if f.err != nil {
		return f.err
	}
	f.tokens = append(f.tokens, token)
	return nil
}

func testFactoryConfig() FactoryConfig {
	return FactoryConfig{
		ChainID:           5800,
		TBC20Address:      tburnaddr.GenerateSystemAddress("tbc20-factory"),
		TBC20Configured:   true,
		TBC721Address:     tburnaddr.GenerateSystemAddress("tbc721-factory"),
		TBC721Configured:  true,
		TBC1155Address:    tburnaddr.GenerateSystemAddress("tbc1155-factory"),
		TBC1155Configured: true,
		ReceiptTimeout:    time.Second,
	}
}

func newTestFactory(client ChainRPC, registry TokenRegistrar) *TokenFactoryUsecase {
	return NewTokenFactoryUsecase(client, registry, testFactoryConfig())
}

func intPtr(v int) *int             { return &v }
func boolPtr(v bool) *bool          { return &v }
func floatPtr(v float64) *float64   { return &v }
func deployerAddress() string       { return tburnaddr.GenerateSystemAddress("test-deployer") }
func fungibleRequest() *entities.TokenDeploymentRequest {
	return &entities.TokenDeploymentRequest{
		Standard:        entities.StandardTBC20,
		Name:            "Test",
		Symbol:          "TST",
		DeployerAddress: deployerAddress(),
	}
}

func TestGetFactoryAddress(t *testing.T) {
	u := newTestFactory(nil, nil)

	for _, standard := range []entities.TokenStandard{entities.StandardTBC20, entities.StandardTBC721, entities.StandardTBC1155} {
		addr, err := u.GetFactoryAddress(standard)
		require.NoError(t, err)
		require.True(t, tburnaddr.IsValidAddress(addr))
	}

	_, err := u.GetFactoryAddress(entities.TokenStandard("TBC-999"))
	require.ErrorIs(t, err, domainerrors.ErrUnsupportedStandard)
}

func TestEncodeFungibleScalesSupply(t *testing.T) {
	u := newTestFactory(nil, nil)
	req := fungibleRequest()
	req.TotalSupply = "500"
	req.Decimals = intPtr(6)

	data, err := u.EncodeDeploymentData(req)
	require.NoError(t, err)

	method := TBC20FactoryABI.Methods["createToken"]
	require.Equal(t, method.ID, data[:4])

	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Equal(t, "Test", args[0])
	require.Equal(t, "TST", args[1])
	require.Equal(t, "500000000", args[2].(*big.Int).String())
	require.Equal(t, uint8(6), args[3])
	require.False(t, args[4].(bool), "mintable defaults false")
	require.True(t, args[5].(bool), "burnable defaults true")
	require.False(t, args[6].(bool), "pausable defaults false")
	require.Equal(t, "0", args[7].(*big.Int).String(), "unbounded max supply sentinel")
	require.True(t, args[8].(bool), "aiOptimized defaults true")
	require.True(t, args[9].(bool), "quantumResistant defaults true")
}

func TestEncodeFungibleDefaults(t *testing.T) {
	u := newTestFactory(nil, nil)

	data, err := u.EncodeDeploymentData(fungibleRequest())
	require.NoError(t, err)

	args, err := TBC20FactoryABI.Methods["createToken"].Inputs.Unpack(data[4:])
	require.NoError(t, err)

	want, _ := new(big.Int).SetString("1000000000000000000000000", 10) // 1000000 * 10^18
	require.Equal(t, want.String(), args[2].(*big.Int).String())
	require.Equal(t, uint8(18), args[3])
}

func TestEncodeFungibleRejectsBadSupply(t *testing.T) {
	u := newTestFactory(nil, nil)
	req := fungibleRequest()
	req.TotalSupply = "not-a-number"

	_, err := u.EncodeDeploymentData(req)
	require.Error(t, err)
}

func TestEncodeNFTRoyaltyBasisPoints(t *testing.T) {
	u := newTestFactory(nil, nil)
	deployer := deployerAddress()
	req := &entities.TokenDeploymentRequest{
		Standard:          entities.StandardTBC721,
		Name:              "Art",
		Symbol:            "ART",
		DeployerAddress:   deployer,
		BaseURI:           "ipfs://base/",
		RoyaltyPercentage: floatPtr(2.5),
	}

	data, err := u.EncodeDeploymentData(req)
	require.NoError(t, err)

	method := TBC721FactoryABI.Methods["createNFT"]
	require.Equal(t, method.ID, data[:4])

	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Equal(t, "10000", args[3].(*big.Int).String(), "max supply defaults")
	require.Equal(t, "250", args[4].(*big.Int).String(), "2.5% is 250 bps")

	// royalty recipient defaults to the deployer's wire address
	payload, err := tburnaddr.PayloadBytes(deployer)
	require.NoError(t, err)
	require.Equal(t, common.BytesToAddress(payload), args[5].(common.Address))
}

func TestEncodeMultiTokenDefaults(t *testing.T) {
	u := newTestFactory(nil, nil)
	req := &entities.TokenDeploymentRequest{
		Standard:        entities.StandardTBC1155,
		Name:            "Multi",
		Symbol:          "MLT",
		DeployerAddress: deployerAddress(),
		BaseURI:         "ipfs://multi/{id}",
	}

	data, err := u.EncodeDeploymentData(req)
	require.NoError(t, err)

	args, err := TBC1155FactoryABI.Methods["createMultiToken"].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Equal(t, "ipfs://multi/{id}", args[1])
	require.True(t, args[2].(bool), "multi-token mintable defaults true")
	require.True(t, args[3].(bool))
	require.True(t, args[4].(bool))
	require.True(t, args[5].(bool))
}

func TestEncodeUnsupportedStandard(t *testing.T) {
	u := newTestFactory(nil, nil)
	_, err := u.EncodeDeploymentData(&entities.TokenDeploymentRequest{Standard: "ERC-20"})
	require.ErrorIs(t, err, domainerrors.ErrUnsupportedStandard)
}

func TestEstimateGasBufferIntegerArithmetic(t *testing.T) {
	// raw estimates above 2^53 lose precision in float math; the buffer
	// must be exact integer arithmetic
	raw := uint64(1) << 60
	client := &fakeChainRPC{estimateGas: raw, gasPriceErr: errors.New("no fee data"), gasTipErr: errors.New("no fee data")}
	u := newTestFactory(client, nil)

	est, err := u.EstimateGas(context.Background(), fungibleRequest())
	require.NoError(t, err)

	want := new(big.Int).SetUint64(raw)
	want.Mul(want, big.NewInt(120))
	want.Div(want, big.NewInt(100))
	require.Equal(t, want.String(), est.GasLimit)
	require.Equal(t, "10000000000", est.MaxFeePerGas, "missing fee data falls back to 10 gwei")
	require.Equal(t, "1000000000", est.MaxPriorityFeePerGas)
}

func TestEstimateGasUsesSuggestedFees(t *testing.T) {
	client := &fakeChainRPC{
		estimateGas: 100000,
		gasPrice:    big.NewInt(25_000_000_000),
		gasTip:      big.NewInt(2_000_000_000),
	}
	u := newTestFactory(client, nil)

	est, err := u.EstimateGas(context.Background(), fungibleRequest())
	require.NoError(t, err)
	require.Equal(t, "120000", est.GasLimit)
	require.Equal(t, "25000000000", est.MaxFeePerGas)
	require.Equal(t, "2000000000", est.MaxPriorityFeePerGas)
	require.Equal(t, "3000000000000000", est.EstimatedCostWei) // 120000 * 25 gwei
	require.Equal(t, "0.003", est.EstimatedCostTB)
}

func TestEstimateGasFallbackTotality(t *testing.T) {
	client := &fakeChainRPC{estimateGasErr: errors.New("connection refused")}
	u := newTestFactory(client, nil)

	est, err := u.EstimateGas(context.Background(), fungibleRequest())
	require.NoError(t, err, "estimation never fails on RPC errors")
	require.Equal(t, "500000", est.GasLimit)
	require.Equal(t, "10000000000", est.MaxFeePerGas)
	require.Equal(t, "1000000000", est.MaxPriorityFeePerGas)
	require.Equal(t, "5000000000000000", est.EstimatedCostWei)
}

func TestEstimateGasNilClientFallsBack(t *testing.T) {
	u := newTestFactory(nil, nil)

	est, err := u.EstimateGas(context.Background(), fungibleRequest())
	require.NoError(t, err)
	require.Equal(t, "500000", est.GasLimit)
}

func TestEstimateGasUnsupportedStandardStillFatal(t *testing.T) {
	u := newTestFactory(&fakeChainRPC{}, nil)
	_, err := u.EstimateGas(context.Background(), &entities.TokenDeploymentRequest{Standard: "bogus"})
	require.ErrorIs(t, err, domainerrors.ErrUnsupportedStandard)
}

func TestBuildDeploymentTransaction(t *testing.T) {
	client := &fakeChainRPC{estimateGas: 100000, gasPrice: big.NewInt(10_000_000_000), gasTip: big.NewInt(1_000_000_000)}
	u := newTestFactory(client, nil)

	tx, err := u.BuildDeploymentTransaction(context.Background(), fungibleRequest())
	require.NoError(t, err)
	require.Equal(t, u.config.TBC20Address, tx.To)
	require.True(t, strings.HasPrefix(tx.Data, "0x"))
	require.Greater(t, len(tx.Data), 10)
	require.Equal(t, "120000", tx.GasLimit)
	require.Equal(t, uint64(5800), tx.ChainID)
	require.Nil(t, tx.Nonce, "nonce left to the signer")
}

func creationLog(standard entities.TokenStandard, created common.Address) entities.ReceiptLog {
	var eventID common.Hash
	switch standard {
	case entities.StandardTBC20:
		eventID = TBC20FactoryABI.Events["TokenCreated"].ID
	case entities.StandardTBC721:
		eventID = TBC721FactoryABI.Events["NFTCreated"].ID
	default:
		eventID = TBC1155FactoryABI.Events["MultiTokenCreated"].ID
	}
	return entities.ReceiptLog{
		Address: "0x1111111111111111111111111111111111111111",
		Topics: []string{
			eventID.Hex(),
			common.BytesToHash(created.Bytes()).Hex(),
			common.BytesToHash(common.HexToAddress("0x2222222222222222222222222222222222222222").Bytes()).Hex(),
		},
		Data: "0x",
	}
}

func TestProcessReceiptRejectsFailedTransaction(t *testing.T) {
	registry := &fakeRegistrar{}
	u := newTestFactory(nil, registry)

	result := u.ProcessDeploymentReceipt(context.Background(), fungibleRequest(), "0xdead", &entities.DeploymentReceipt{
		Status: 0,
		Logs:   []entities.ReceiptLog{creationLog(entities.StandardTBC20, common.HexToAddress("0xabcd"))},
	})

	require.False(t, result.Success)
	require.Equal(t, "Transaction failed on-chain", result.Error)
	require.Empty(t, registry.tokens, "reverted deployments are never registered")
}

func TestProcessReceiptExtractsEventAmongNoise(t *testing.T) {
	registry := &fakeRegistrar{}
	u := newTestFactory(nil, registry)

	req := fungibleRequest()
	req.TotalSupply = "500"
	req.Decimals = intPtr(6)

	created := common.HexToAddress("0xAbCdEF0123456789abcDef0123456789ABcDeF01")
	noise := entities.ReceiptLog{
		Address: "0x9999999999999999999999999999999999999999",
		Topics:  []string{common.HexToHash("0x01").Hex(), common.HexToHash("0x02").Hex()},
	}
	bare := entities.ReceiptLog{Topics: []string{TBC20FactoryABI.Events["TokenCreated"].ID.Hex()}}

	result := u.ProcessDeploymentReceipt(context.Background(), req, "0xbeef", &entities.DeploymentReceipt{
		Status:      1,
		BlockNumber: 1234,
		GasUsed:     "210000",
		Logs:        []entities.ReceiptLog{noise, bare, creationLog(entities.StandardTBC20, created)},
	})

	require.True(t, result.Success)
	require.Equal(t, strings.ToLower(created.Hex()), result.ContractAddress)
	require.Equal(t, uint64(1234), result.BlockNumber)
	require.Equal(t, "210000", result.GasUsed)

	require.Len(t, registry.tokens, 1)
	token := registry.tokens[0]
	require.Equal(t, "500", token.TotalSupply, "registry keeps the pre-scaling supply")
	require.Equal(t, 6, token.Decimals)
	require.Equal(t, entities.TokenStatusConfirmed, token.Status)
	require.Equal(t, entities.ModeWallet, token.DeploymentMode)
	require.Equal(t, entities.SourceTokenFactory, token.DeploymentSource)
}

func TestProcessReceiptNoMatchingEvent(t *testing.T) {
	registry := &fakeRegistrar{}
	u := newTestFactory(nil, registry)

	result := u.ProcessDeploymentReceipt(context.Background(), fungibleRequest(), "0xbeef", &entities.DeploymentReceipt{
		Status: 1,
		Logs: []entities.ReceiptLog{
			{Topics: []string{common.HexToHash("0x01").Hex(), common.HexToHash("0x02").Hex()}},
			// NFT event does not match a fungible deployment
			creationLog(entities.StandardTBC721, common.HexToAddress("0xabcd")),
		},
	})

	require.False(t, result.Success)
	require.Equal(t, "Could not extract contract address from logs", result.Error)
	require.Empty(t, registry.tokens)
}

func TestSimulationShape(t *testing.T) {
	registry := &fakeRegistrar{}
	u := newTestFactory(nil, registry)

	req := fungibleRequest()
	req.DeployerAddress = "0xabcdef0123456789abcdef0123456789abcdef01" // legacy hex form

	result, err := u.GenerateMockDeploymentForSimulation(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.True(t, tburnaddr.IsNativeFormat(result.ContractAddress), "contract address in native encoding")
	require.Regexp(t, regexp.MustCompile(`^0x[0-9a-f]{64}$`), result.TransactionHash)
	require.GreaterOrEqual(t, result.BlockNumber, uint64(1_000_000))
	require.Less(t, result.BlockNumber, uint64(2_000_000))

	require.Len(t, registry.tokens, 1)
	token := registry.tokens[0]
	require.Equal(t, entities.TokenStatusConfirmed, token.Status)
	require.Equal(t, entities.ModeSimulation, token.DeploymentMode)
	require.True(t, tburnaddr.IsNativeFormat(token.DeployerAddress), "legacy deployer migrated to native form")
}

func TestSimulationRejectsUnknownStandard(t *testing.T) {
	u := newTestFactory(nil, &fakeRegistrar{})
	_, err := u.GenerateMockDeploymentForSimulation(context.Background(), &entities.TokenDeploymentRequest{Standard: "nope"})
	require.ErrorIs(t, err, domainerrors.ErrUnsupportedStandard)
}

func TestDefaultFlagConsistencyAcrossCreationPaths(t *testing.T) {
	assertDefaults := func(t *testing.T, token *entities.RegisteredToken) {
		t.Helper()
		require.False(t, token.Mintable)
		require.True(t, token.Burnable)
		require.False(t, token.Pausable)
		require.True(t, token.AIOptimizationEnabled)
		require.True(t, token.QuantumResistant)
		require.True(t, token.MEVProtection)
	}

	receiptRegistry := &fakeRegistrar{}
	u := newTestFactory(nil, receiptRegistry)
	result := u.ProcessDeploymentReceipt(context.Background(), fungibleRequest(), "0x1", &entities.DeploymentReceipt{
		Status: 1,
		Logs:   []entities.ReceiptLog{creationLog(entities.StandardTBC20, common.HexToAddress("0xabcd"))},
	})
	require.True(t, result.Success)
	assertDefaults(t, receiptRegistry.tokens[0])

	simRegistry := &fakeRegistrar{}
	u2 := newTestFactory(nil, simRegistry)
	_, err := u2.GenerateMockDeploymentForSimulation(context.Background(), fungibleRequest())
	require.NoError(t, err)
	assertDefaults(t, simRegistry.tokens[0])
}

func TestRegistrationSurvivesRegistrarFailure(t *testing.T) {
	registry := &fakeRegistrar{err: errors.New("db down")}
	u := newTestFactory(nil, registry)

	result := u.ProcessDeploymentReceipt(context.Background(), fungibleRequest(), "0x1", &entities.DeploymentReceipt{
		Status: 1,
		Logs:   []entities.ReceiptLog{creationLog(entities.StandardTBC20, common.HexToAddress("0xabcd"))},
	})

	require.True(t, result.Success, "registry failure does not fail the deployment result")
	require.NotNil(t, u.GetTokenByAddress(result.ContractAddress))
}

func TestWaitForReceiptTimeout(t *testing.T) {
	client := &fakeChainRPC{receiptErr: errors.New("not found")}
	cfg := testFactoryConfig()
	cfg.ReceiptTimeout = 50 * time.Millisecond
	u := NewTokenFactoryUsecase(client, nil, cfg)

	result := u.WaitForTransactionReceipt(context.Background(), "0x1")
	require.Equal(t, "timeout", result.Status)
}

func TestWaitForReceiptSuccessAndFailure(t *testing.T) {
	success := &fakeChainRPC{receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(77), GasUsed: 21000}}
	u := newTestFactory(success, nil)
	result := u.WaitForTransactionReceipt(context.Background(), "0x1")
	require.Equal(t, "success", result.Status)
	require.Equal(t, uint64(77), result.BlockNumber)
	require.Equal(t, "21000", result.GasUsed)

	failed := &fakeChainRPC{receipt: &types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(78)}}
	u = newTestFactory(failed, nil)
	result = u.WaitForTransactionReceipt(context.Background(), "0x1")
	require.Equal(t, "failed", result.Status)
}

func TestCheckConnection(t *testing.T) {
	u := newTestFactory(&fakeChainRPC{blockNumber: 42}, nil)
	connected, block := u.CheckConnection(context.Background())
	require.True(t, connected)
	require.Equal(t, uint64(42), block)

	u = newTestFactory(&fakeChainRPC{blockNumberErr: errors.New("refused")}, nil)
	connected, block = u.CheckConnection(context.Background())
	require.False(t, connected)
	require.Zero(t, block)

	u = newTestFactory(nil, nil)
	connected, _ = u.CheckConnection(context.Background())
	require.False(t, connected)
}

func TestValidateTokenContract(t *testing.T) {
	owner := common.HexToAddress("0x3333333333333333333333333333333333333333")
	client := &fakeChainRPC{
		callView: func(ctx context.Context, to string, data []byte) ([]byte, error) {
			switch {
			case matchesSelector(data, tokenViewABI.Methods["name"].ID):
				return tokenViewABI.Methods["name"].Outputs.Pack("Test Token")
			case matchesSelector(data, tokenViewABI.Methods["symbol"].ID):
				return tokenViewABI.Methods["symbol"].Outputs.Pack("TST")
			case matchesSelector(data, tokenViewABI.Methods["totalSupply"].ID):
				return tokenViewABI.Methods["totalSupply"].Outputs.Pack(big.NewInt(1_000_000))
			case matchesSelector(data, tokenViewABI.Methods["owner"].ID):
				return tokenViewABI.Methods["owner"].Outputs.Pack(owner)
			}
			return nil, fmt.Errorf("unexpected call %x", data)
		},
	}
	u := newTestFactory(client, nil)

	validation := u.ValidateTokenContract(context.Background(), tburnaddr.GenerateSystemAddress("some-token"))
	require.True(t, validation.Valid)
	require.Equal(t, "Test Token", validation.Name)
	require.Equal(t, "TST", validation.Symbol)
	require.Equal(t, "1000000", validation.TotalSupply)
	require.True(t, tburnaddr.IsNativeFormat(validation.Owner))
}

func TestValidateTokenContractUnreachable(t *testing.T) {
	u := newTestFactory(&fakeChainRPC{}, nil)
	validation := u.ValidateTokenContract(context.Background(), tburnaddr.GenerateSystemAddress("some-token"))
	require.False(t, validation.Valid)
	require.NotEmpty(t, validation.Error)
}

func matchesSelector(data, selector []byte) bool {
	return len(data) >= 4 && string(data[:4]) == string(selector)
}

func TestGetFactoryStatus(t *testing.T) {
	cfg := testFactoryConfig()
	cfg.TBC1155Configured = false
	u := NewTokenFactoryUsecase(&fakeChainRPC{blockNumber: 99}, nil, cfg)

	status := u.GetFactoryStatus(context.Background())
	require.True(t, status.RPCConnected)
	require.Equal(t, uint64(99), status.BlockNumber)
	require.False(t, status.LaunchReady, "placeholder factory blocks launch readiness")
	require.Equal(t, MainnetLaunchDate, status.LaunchDate)
	require.Len(t, status.Factories, 3)
	require.NotEmpty(t, status.Warnings)

	cfg.TBC1155Configured = true
	u = NewTokenFactoryUsecase(&fakeChainRPC{blockNumber: 99}, nil, cfg)
	status = u.GetFactoryStatus(context.Background())
	require.True(t, status.LaunchReady)
	require.Empty(t, status.Warnings)
}

func TestDeployedTokensTracking(t *testing.T) {
	u := newTestFactory(nil, &fakeRegistrar{})

	result, err := u.GenerateMockDeploymentForSimulation(context.Background(), fungibleRequest())
	require.NoError(t, err)

	require.Len(t, u.GetDeployedTokens(), 1)
	require.NotNil(t, u.GetTokenByAddress(result.ContractAddress))
	require.NotNil(t, u.GetTokenByAddress(strings.ToUpper(result.ContractAddress[:3])+result.ContractAddress[3:]))
	require.Nil(t, u.GetTokenByAddress("tb1qunknown"))
}
