package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/authcheck-api/internal/domain"
)

// botCredentialsKey is the fixed PK of the single credentials row.
const botCredentialsKey = "bot"

// CredentialsRepo stores the dashboard-managed bot credentials row.
type CredentialsRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCredentialsRepo(client *dynamodb.Client, tableName string) *CredentialsRepo {
	return &CredentialsRepo{client: client, tableName: tableName}
}

func (r *CredentialsRepo) Get(ctx context.Context) (*domain.BotCredentials, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("id", botCredentialsKey),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("bot credentials not found: %w", domain.ErrNotFound)
	}
	var c domain.BotCredentials
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CredentialsRepo) Put(ctx context.Context, c *domain.BotCredentials) error {
	c.ID = botCredentialsKey
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal bot credentials: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}
