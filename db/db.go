package db

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/wav2midi/constants"
	"github.com/jsphweid/wav2midi/model"
	"github.com/pkg/errors"
)

// DynamoDB caps BatchGetItem at 100 keys
const maxBatch = 100

// Catalog records produced transcriptions. A nil *Catalog is a valid,
// disabled catalog.
type Catalog struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewCatalog(client dynamodbiface.DynamoDBAPI, table string) *Catalog {
	return &Catalog{client: client, table: table}
}

// CatalogFromEnv connects to DYNAMODB_ENDPOINT, or returns nil when it is
// not set.
func CatalogFromEnv() (*Catalog, error) {
	endpoint := constants.GetDynamoEndpoint()
	if endpoint == "" {
		return nil, nil
	}
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a DynamoDB session")
	}
	return NewCatalog(dynamodb.New(sess), constants.GetDynamoTable()), nil
}

func (c *Catalog) PutTranscription(rec model.TranscriptionRecord) error {
	if c == nil {
		return nil
	}
	item, err := dynamodbattribute.MarshalMap(rec)
	if err != nil {
		return errors.Wrap(err, "marshalling transcription record")
	}
	_, err = c.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	})
	return errors.Wrap(err, "error from DynamoDB")
}

func (c *Catalog) GetTranscriptions(ids []string) (map[string]model.TranscriptionRecord, error) {
	res := make(map[string]model.TranscriptionRecord)
	if c == nil || len(ids) == 0 {
		return res, nil
	}
	if len(ids) > maxBatch {
		return nil, errors.Errorf("at most %d ids per lookup, got %d", maxBatch, len(ids))
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, id := range ids {
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		})
	}
	out, err := c.client.BatchGetItem(&dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			c.table: {Keys: keys},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "error from DynamoDB")
	}

	for _, item := range out.Responses[c.table] {
		var rec model.TranscriptionRecord
		if err := dynamodbattribute.UnmarshalMap(item, &rec); err != nil {
			return nil, errors.Wrap(err, "unmarshalling transcription record")
		}
		res[rec.Id] = rec
	}
	return res, nil
}
