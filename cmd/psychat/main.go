package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/gerryalvrz/psychat-solana/pkg/appbuilder"
	"github.com/gerryalvrz/psychat-solana/pkg/logger"
	"github.com/gerryalvrz/psychat-solana/pkg/rabbitmq"
	"github.com/gerryalvrz/psychat-solana/pkg/rest"
	"github.com/gerryalvrz/psychat-solana/pkg/utilities"
	"github.com/gerryalvrz/psychat-solana/src/chat"
	"github.com/gerryalvrz/psychat-solana/src/config"
	"github.com/gerryalvrz/psychat-solana/src/external"
	"github.com/gerryalvrz/psychat-solana/src/identity"
	"github.com/gerryalvrz/psychat-solana/src/marketplace"
	"github.com/gerryalvrz/psychat-solana/src/persistence"
	"github.com/gerryalvrz/psychat-solana/src/vault"
	"github.com/gerryalvrz/psychat-solana/src/yieldfarm"
)

// @title           PsyChat API
// @version         1.0
// @description     Privacy-first AI therapy chat with soulbound identity records on Solana
// @BasePath        /v1
func main() {
	_ = godotenv.Load()

	builder := appbuilder.New[config.PsychatConfigJson, config.PsychatConfig]().
		InitLogger(logger.GlobalLoggerConfig{
			Args: []logger.LoggerArg{
				{Key: "application", Value: "psychat"},
				{Key: "version", Value: "1.0.0"},
			},
		}).
		LoadConfig(configPath())

	mainLogger := logger.Default()
	conf := builder.Config()

	clientConf, err := conf.SolanaConf.ToClientConfig()
	if err != nil {
		mainLogger.Fatal(err, "Invalid Solana configuration")
	}
	solanaClient := external.NewSolanaClient(clientConf)

	signer, err := external.LoadKeypairSigner(conf.SolanaConf.SignerKeypairPath())
	if err != nil {
		mainLogger.Fatal(err, "Unable to load the payer keypair")
	}

	dataDir := utilities.Ternary(conf.StorageConf.DataDir != "", conf.StorageConf.DataDir, "data/psychat")
	objectDir := utilities.Ternary(conf.StorageConf.ObjectDir != "", conf.StorageConf.ObjectDir, "data/walrus")

	store, err := persistence.NewPebbleStore(dataDir)
	if err != nil {
		mainLogger.Fatal(err, "Unable to open the local persistence store")
	}
	defer store.Close()

	objects, err := vault.NewWalrusStore(objectDir)
	if err != nil {
		mainLogger.Fatal(err, "Unable to open the object store")
	}
	encryptor := vault.NewArciumEncryptor()

	identitySvc := identity.NewService(solanaClient, signer, encryptor, objects, store, clientConf.ProgramID)
	identitySvc.Network = clientConf.Network

	chatSvc := chat.NewService(
		chat.NewClient(conf.LlmConf.BaseUrl),
		conf.LlmConf.DefaultProvider,
		conf.LlmConf.DefaultModel,
	)
	marketplaceSvc := marketplace.NewService(solanaClient, signer, identitySvc, clientConf.ProgramID)
	yieldSvc := yieldfarm.NewService(solanaClient, signer, encryptor, identitySvc, clientConf.ProgramID)

	transcript := func() []byte {
		blob, err := chatSvc.Session.TranscriptBlob()
		if err != nil {
			mainLogger.Errorf(err, "Transcript serialization failed, minting empty payload")
			return nil
		}
		return blob
	}

	identityHandler := identity.NewHandler(identitySvc, transcript)
	chatHandler := chat.NewHandler(chatSvc)
	marketplaceHandler := marketplace.NewHandler(marketplaceSvc)
	yieldHandler := yieldfarm.NewHandler(yieldSvc, clientConf.Network)

	var routes []rest.Route
	routes = append(routes, chatHandler.Routes()...)
	routes = append(routes, identityHandler.Routes()...)
	routes = append(routes, marketplaceHandler.Routes()...)
	routes = append(routes, yieldHandler.Routes()...)

	builder.
		InitRabbitmqConnection().
		InitRabbitmqRegistries().
		AddWorkerServices(identity.NewReconciler(identitySvc)).
		AddGinRoutes(routes...).
		AddSwagger().
		InitGinRouter()

	if conf.RabbitmqConf.Enabled {
		if publisher := rabbitmq.GetPublisher("MintResultsPublisher"); publisher != nil {
			identitySvc.Publisher = publisher
		}
		if logPublisher := rabbitmq.GetPublisher("LogPublisher"); logPublisher != nil {
			logger.AddSinkToLoggerInstance(mainLogger, rabbitmq.CreateRabbitmqLoggerSink(logPublisher))
		}
		builder.AddWorkerServices(identity.NewSessionEndWorker(identitySvc, transcript))
	}

	builder.Build().Start()
}

func configPath() string {
	path := os.Getenv("CONFIG_PATH")
	return utilities.Ternary(path != "", path, "config.json")
}
