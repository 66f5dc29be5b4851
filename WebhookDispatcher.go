package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	json "github.com/bytedance/sonic"

	"sheetEngine/contracts"
)

const WebhookWorkersCount = 5

const webhookQueueSize = 20

type SheetWebhooks map[string]string

type WebhookSendCommand struct {
	Webhook string
	Cell    *contracts.Cell
}

// WebhookDispatcher posts changed cells to per-cell subscriber URLs. A
// buffered queue feeds a fixed pool of sender workers so notification
// never blocks the write path.
type WebhookDispatcher struct {
	queue chan WebhookSendCommand

	mutex    sync.RWMutex
	webhooks map[string]SheetWebhooks
}

func NewWebhookDispatcher() *WebhookDispatcher {
	return &WebhookDispatcher{
		queue:    make(chan WebhookSendCommand, webhookQueueSize),
		webhooks: map[string]SheetWebhooks{},
	}
}

func (manager *WebhookDispatcher) SetWebhookUrl(sheetId string, cellId string, webhookUrl string) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	if _, ok := manager.webhooks[sheetId]; !ok {
		manager.webhooks[sheetId] = SheetWebhooks{}
	}

	if webhookUrl == "" {
		delete(manager.webhooks[sheetId], cellId)
	} else {
		manager.webhooks[sheetId][cellId] = webhookUrl
	}
}

func (manager *WebhookDispatcher) GetWebhookUrl(sheetId string, cellId string) string {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	if sheetWebhooks, ok := manager.webhooks[sheetId]; ok {
		return sheetWebhooks[cellId]
	}
	return ""
}

func (manager *WebhookDispatcher) Notify(sheetId string, cells []*contracts.Cell) {
	manager.mutex.RLock()
	sheetWebhooks, ok := manager.webhooks[sheetId]

	commands := make([]WebhookSendCommand, 0, len(cells))
	if ok {
		for _, cell := range cells {
			if webhook, subscribed := sheetWebhooks[cell.CellId]; subscribed {
				commands = append(commands, WebhookSendCommand{Webhook: webhook, Cell: cell})
			}
		}
	}
	manager.mutex.RUnlock()

	if len(commands) > 0 {
		go manager.addToQueue(commands)
	}
}

func (manager *WebhookDispatcher) addToQueue(commands []WebhookSendCommand) {
	for _, command := range commands {
		manager.queue <- command
	}
}

func (manager *WebhookDispatcher) Start() {
	for i := 0; i < WebhookWorkersCount; i++ {
		go manager.runWebhookSenderWorker()
	}
}

func (manager *WebhookDispatcher) Close() {
	close(manager.queue)
}

func (manager *WebhookDispatcher) runWebhookSenderWorker() {
	client := &http.Client{
		Timeout: time.Second * 5,
	}

	for command := range manager.queue {
		payload, _ := json.Marshal(command.Cell)
		response, err := client.Post(command.Webhook, "application/json", bytes.NewBuffer(payload))

		if err != nil {
			slog.Error("webhook send failed", "url", command.Webhook, "error", err)
			continue
		}
		if response.StatusCode >= 300 {
			slog.Warn("unexpected webhook response status", "url", command.Webhook, "status", response.Status)
		}

		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, response.Body)
		_ = response.Body.Close()
	}
}
