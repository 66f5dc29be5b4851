package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sheetEngine/contracts"
)

func TestWebhookDispatcher_SetWebhookUrl(t *testing.T) {
	dispatcher := NewWebhookDispatcher()

	assert.Equal(t, "", dispatcher.GetWebhookUrl("sheet1", "A1"))

	dispatcher.SetWebhookUrl("sheet1", "A1", "http://localhost/hook")
	assert.Equal(t, "http://localhost/hook", dispatcher.GetWebhookUrl("sheet1", "A1"))
	assert.Equal(t, "", dispatcher.GetWebhookUrl("sheet1", "B1"))
	assert.Equal(t, "", dispatcher.GetWebhookUrl("sheet2", "A1"))

	dispatcher.SetWebhookUrl("sheet1", "A1", "http://localhost/other")
	assert.Equal(t, "http://localhost/other", dispatcher.GetWebhookUrl("sheet1", "A1"))

	// an empty url unsubscribes
	dispatcher.SetWebhookUrl("sheet1", "A1", "")
	assert.Equal(t, "", dispatcher.GetWebhookUrl("sheet1", "A1"))
}

func TestWebhookDispatcher_Notify(t *testing.T) {
	received := make(chan string, 10)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- string(body)
	}))
	defer server.Close()

	dispatcher := NewWebhookDispatcher()
	dispatcher.Start()
	defer dispatcher.Close()

	dispatcher.SetWebhookUrl("sheet1", "A1", server.URL)

	dispatcher.Notify("sheet1", []*contracts.Cell{
		{CellId: "A1", Value: "=B1 + 1", Result: "8"},
		{CellId: "B1", Value: "7", Result: "7"},
	})

	select {
	case payload := <-received:
		assert.JSONEq(t, `{"cell_id":"A1","value":"=B1 + 1","result":"8"}`, payload)
	case <-time.After(time.Second):
		t.Fatal("webhook was not delivered")
	}

	// B1 has no subscriber, so only one delivery happens
	select {
	case payload := <-received:
		t.Fatalf("unexpected delivery: %s", payload)
	case <-time.After(100 * time.Millisecond):
	}

	dispatcher.Notify("unknown", []*contracts.Cell{
		{CellId: "A1", Value: "1", Result: "1"},
	})
	select {
	case payload := <-received:
		t.Fatalf("unexpected delivery: %s", payload)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWebhookDispatcher_DeliversEveryNotification(t *testing.T) {
	const notifications = 30

	received := make(chan struct{}, notifications)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- struct{}{}
	}))
	defer server.Close()

	dispatcher := NewWebhookDispatcher()
	dispatcher.Start()
	defer dispatcher.Close()

	dispatcher.SetWebhookUrl("sheet1", "A1", server.URL)

	for i := 0; i < notifications; i++ {
		dispatcher.Notify("sheet1", []*contracts.Cell{
			{CellId: "A1", Value: "1", Result: strconv.Itoa(i)},
		})
	}

	for i := 0; i < notifications; i++ {
		select {
		case <-received:
		case <-time.After(time.Second):
			t.Fatalf("delivery %d never arrived", i)
		}
	}
}

func TestWebhookDispatcher_ConcurrentSubscribeAndNotify(t *testing.T) {
	dispatcher := NewWebhookDispatcher()

	cells := []*contracts.Cell{{CellId: "A1", Value: "1", Result: "1"}}

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		worker := worker
		wg.Add(2)

		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				dispatcher.SetWebhookUrl("sheet1", "Z"+strconv.Itoa(worker*200+i+1), "http://localhost/hook")
			}
		}()

		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				dispatcher.Notify("sheet1", cells)
				_ = dispatcher.GetWebhookUrl("sheet1", "A1")
			}
		}()
	}
	wg.Wait()
}
