package main

import (
	"github.com/gin-gonic/gin"
	"go.etcd.io/bbolt"

	"sheetEngine/contracts"
)

type ServiceContainer struct {
	Database          *bbolt.DB
	FormulaParser     contracts.FormulaParser
	SheetRepository   contracts.SheetRepository
	WebhookDispatcher contracts.WebhookDispatcher
	ApiController     contracts.ApiController
	Router            *gin.Engine
}

func BuildServiceContainer(configDbPath string) (container ServiceContainer, err error) {
	container.Database, err = bbolt.Open(configDbPath, 0600, nil)
	if err != nil {
		return
	}

	container.FormulaParser = NewExpressionFormulaParser()
	container.WebhookDispatcher = NewWebhookDispatcher()

	container.SheetRepository, err = NewSheetRepository(
		container.Database, container.FormulaParser,
		NewPositionBinarySerializer(), container.WebhookDispatcher,
	)
	if err != nil {
		return
	}

	container.ApiController = NewApiController(container.SheetRepository, container.WebhookDispatcher)
	container.Router = SetupRouter(container.ApiController)

	return
}
