package wire

import (
	"Wellspring/internal/api"
	"Wellspring/internal/api/config"
	"Wellspring/internal/api/handler"
	"Wellspring/internal/job"
	"Wellspring/internal/pkg/cron"
	"Wellspring/internal/pkg/es"
	"Wellspring/internal/pkg/kafka"
	"Wellspring/internal/pkg/llm"
	pkgmongo "Wellspring/internal/pkg/mongo"
	"Wellspring/internal/pkg/redis"
	"Wellspring/internal/repository"
	"Wellspring/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
	Producer     kafka.ActivityProducer
	ChatService  service.ChatService
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	// MySQL 仓储
	userRepo := repository.NewUserRepo(db)
	userRolesRepo := repository.NewUserRolesRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	postRepo := repository.NewPostRepository(db)
	postActionRepo := repository.NewPostActionRepo(db)
	challengeRepo := repository.NewChallengeRepo(db)
	storeRepo := repository.NewStoreRepo(db)

	// Mongo 仓储
	activityRepo := pkgmongo.NewActivityRepo(mongoDB)
	assistantMessageRepo := pkgmongo.NewAssistantMessageRepo(mongoDB)
	conversationRepo := pkgmongo.NewConversationRepo(mongoDB)
	messageRepo := pkgmongo.NewMessageRepo(mongoDB)
	relationRepo := pkgmongo.NewRelationRepo(mongoDB)

	// ES 仓储
	postESRepo := es.NewPostRepo(es.Client)
	userESRepo := es.NewUserRepo(es.Client)

	// Kafka 生产者
	producer, err := kafka.NewActivityProducer(cfg)
	if err != nil {
		return nil, err
	}

	agent := llm.NewAgent(llm.NewToolHandler(postESRepo))

	userService := service.NewUserService(userRepo, roleRepo, userESRepo)
	userRolesService := service.NewUserRolesService(userRolesRepo)
	userFollowService := service.NewUserFollowService(relationRepo, userRepo, producer)
	smsService := service.NewSmsService()
	postService := service.NewPostService(postESRepo, postRepo, userRepo, challengeRepo)
	postActionService := service.NewPostActionService(postActionRepo, postRepo, userRepo, producer)
	challengeService := service.NewChallengeService(challengeRepo, userRepo, producer)
	chatService := service.NewChatService(conversationRepo, messageRepo, userRepo)
	activityService := service.NewActivityService(activityRepo, userRepo)
	storeService := service.NewStoreService(storeRepo)
	assistantService := service.NewAssistantService(agent, assistantMessageRepo)

	handlers := &api.HandlersGroup{
		UserHandler:       handler.NewUserHandler(userService, userRolesService, smsService),
		UserFollowHandler: handler.NewUserFollowHandler(userFollowService),
		PostHandler:       handler.NewPostHandler(postService),
		PostActionHandler: handler.NewPostActionHandler(postActionService),
		ChallengeHandler:  handler.NewChallengeHandler(challengeService),
		ChatHandler:       handler.NewChatHandler(chatService),
		ActivityHandler:   handler.NewActivityHandler(activityService),
		StoreHandler:      handler.NewStoreHandler(storeService),
		AssistantHandler:  handler.NewAssistantHandler(agent, assistantService),
		MediaHandler:      handler.NewMediaHandler(),
		WsHandler:         handler.NewWsHandler(),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, activityRepo, userRepo, redis.GetRdbClient())
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(
		job.NewCounterFlushJob(postRepo),
		job.NewChallengeWinnerJob(challengeRepo, userRepo, producer),
		job.NewMediaCleanupJob(),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
		Producer:     producer,
		ChatService:  chatService,
	}, nil
}
