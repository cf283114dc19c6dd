package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
)

type ESConfig struct {
	URL      string
	User     string
	Password string
	Index    string
}

func NewESClient(cfg ESConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}
	return client, nil
}

// Indexer mirrors product events into an Elasticsearch index. Other topics are ignored.
type Indexer struct {
	es    *elasticsearch.Client
	index string
}

func NewIndexer(es *elasticsearch.Client, index string) *Indexer {
	if index == "" {
		index = "product"
	}
	return &Indexer{es: es, index: index}
}

func (ix *Indexer) Publish(ctx context.Context, ev Event) error {
	if ev.Topic != TopicProduct || ev.ProductID == 0 {
		return nil
	}
	switch ev.Type {
	case ProductCreated, ProductUpdated:
		doc, ok := ev.Payload.(ProductDoc)
		if !ok {
			return fmt.Errorf("elasticsearch: %s without product document", ev.Type)
		}
		return ix.indexDoc(ctx, doc)
	case ProductDeleted:
		return ix.delete(ctx, ev.ProductID)
	}
	return nil
}

func (ix *Indexer) indexDoc(ctx context.Context, doc ProductDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("elasticsearch: marshal: %w", err)
	}
	res, err := ix.es.Index(ix.index, bytes.NewReader(body),
		ix.es.Index.WithDocumentID(strconv.FormatUint(uint64(doc.ID), 10)),
		ix.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		b, _ := io.ReadAll(res.Body)
		return fmt.Errorf("elasticsearch: index %s: %s", res.Status(), b)
	}
	return nil
}

func (ix *Indexer) delete(ctx context.Context, id uint) error {
	res, err := ix.es.Delete(ix.index, strconv.FormatUint(uint64(id), 10),
		ix.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		b, _ := io.ReadAll(res.Body)
		return fmt.Errorf("elasticsearch: delete %s: %s", res.Status(), b)
	}
	return nil
}
