package config

import (
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/gerryalvrz/psychat-solana/pkg/logger"
	"github.com/gerryalvrz/psychat-solana/pkg/rabbitmq"
	"github.com/gerryalvrz/psychat-solana/src/external"
)

// DefaultProgramID is the devnet deployment used when no override is set.
const DefaultProgramID = "DK9t6EFKWMZr1FwQxuuXwRe2GJ75MuqQ7qdeqKYiqCA6"

type PsychatConfigJson struct {
	LoggerConf   logger.LoggerConfigJson     `json:"logger"`
	RabbitmqConf rabbitmq.RabbitmqConfigJson `json:"rabbitmq"`
	RestConf     RestConfigJson              `json:"rest"`
	SolanaConf   SolanaConfigJson            `json:"solana"`
	LlmConf      LlmConfigJson               `json:"llm"`
	StorageConf  StorageConfigJson           `json:"storage"`
}

func (pcj PsychatConfigJson) ConvertToDomain() PsychatConfig {
	return PsychatConfig{
		LoggerConf:   pcj.LoggerConf.ConvertToDomain(),
		RabbitmqConf: pcj.RabbitmqConf.ConvertToDomain(),
		RestConf:     pcj.RestConf.ConvertToDomain(),
		SolanaConf:   pcj.SolanaConf.ConvertToDomain(),
		LlmConf:      pcj.LlmConf.ConvertToDomain(),
		StorageConf:  pcj.StorageConf.ConvertToDomain(),
	}
}

type PsychatConfig struct {
	LoggerConf   logger.LoggerConfig
	RabbitmqConf rabbitmq.RabbitmqConfig
	RestConf     RestConfig
	SolanaConf   SolanaConfig
	LlmConf      LlmConfig
	StorageConf  StorageConfig
}

func (pc PsychatConfig) GetLoggerConfig() logger.LoggerConfig {
	return pc.LoggerConf
}

func (pc PsychatConfig) GetRabbitmqConfig() rabbitmq.RabbitmqConfig {
	return pc.RabbitmqConf
}

func (pc PsychatConfig) GetRestApiPort() uint16 {
	return pc.RestConf.Port
}

type RestConfigJson struct {
	Port uint16 `json:"port"`
}

type RestConfig struct {
	Port uint16
}

func (rcj RestConfigJson) ConvertToDomain() RestConfig {
	return RestConfig{Port: rcj.Port}
}

type SolanaConfigJson struct {
	Endpoint          string `json:"endpoint"`
	ProgramId         string `json:"program_id"`
	Commitment        string `json:"commitment"`
	Network           string `json:"network"`
	KeypairPath       string `json:"keypair_path"`
	ConfirmTimeoutSec int64  `json:"confirm_timeout_sec"`
	PollIntervalMs    int64  `json:"poll_interval_ms"`
}

type SolanaConfig struct {
	Endpoint       string
	ProgramId      string
	Commitment     string
	Network        string
	KeypairPath    string
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

func (scj SolanaConfigJson) ConvertToDomain() SolanaConfig {
	return SolanaConfig{
		Endpoint:       scj.Endpoint,
		ProgramId:      scj.ProgramId,
		Commitment:     scj.Commitment,
		Network:        scj.Network,
		KeypairPath:    scj.KeypairPath,
		ConfirmTimeout: time.Duration(scj.ConfirmTimeoutSec) * time.Second,
		PollInterval:   time.Duration(scj.PollIntervalMs) * time.Millisecond,
	}
}

// ToClientConfig applies env overrides and parses the program id so the
// client config only ever carries a valid key.
func (sc SolanaConfig) ToClientConfig() (external.SolanaConfig, error) {
	endpoint := overrideFromEnv("SOLANA_RPC_ENDPOINT", sc.Endpoint)
	if endpoint == "" {
		endpoint = rpc.DevNet_RPC
	}

	programId := overrideFromEnv("PROGRAM_ID", sc.ProgramId)
	if programId == "" {
		programId = DefaultProgramID
	}
	programKey, err := solana.PublicKeyFromBase58(programId)
	if err != nil {
		return external.SolanaConfig{}, err
	}

	network := sc.Network
	if network == "" {
		network = "devnet"
	}

	return external.SolanaConfig{
		Endpoint:       endpoint,
		ProgramID:      programKey,
		Commitment:     rpc.CommitmentType(sc.Commitment),
		Network:        network,
		ConfirmTimeout: sc.ConfirmTimeout,
		PollInterval:   sc.PollInterval,
	}, nil
}

// SignerKeypairPath honors the PAYER_KEYPAIR_PATH override.
func (sc SolanaConfig) SignerKeypairPath() string {
	return overrideFromEnv("PAYER_KEYPAIR_PATH", sc.KeypairPath)
}

type LlmConfigJson struct {
	BaseUrl         string `json:"base_url"`
	DefaultProvider string `json:"default_provider"`
	DefaultModel    string `json:"default_model"`
}

type LlmConfig struct {
	BaseUrl         string
	DefaultProvider string
	DefaultModel    string
}

func (lcj LlmConfigJson) ConvertToDomain() LlmConfig {
	return LlmConfig{
		BaseUrl:         lcj.BaseUrl,
		DefaultProvider: lcj.DefaultProvider,
		DefaultModel:    lcj.DefaultModel,
	}
}

type StorageConfigJson struct {
	DataDir   string `json:"data_dir"`
	ObjectDir string `json:"object_dir"`
}

type StorageConfig struct {
	DataDir   string
	ObjectDir string
}

func (scj StorageConfigJson) ConvertToDomain() StorageConfig {
	return StorageConfig{
		DataDir:   scj.DataDir,
		ObjectDir: scj.ObjectDir,
	}
}

func overrideFromEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
