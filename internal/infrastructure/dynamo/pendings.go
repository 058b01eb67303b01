package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/authcheck-api/internal/domain"
)

// PendingRepo provides typed DynamoDB operations for the pending-verifications
// table. PK: requester_id, with a token GSI for callback-side lookups.
type PendingRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPendingRepo(client *dynamodb.Client, tableName string) *PendingRepo {
	return &PendingRepo{client: client, tableName: tableName}
}

// Put upserts the pending entry for a requester. Keying by requester_id makes
// a second attempt supersede the first: the old token row is overwritten, so
// consuming the old token afterwards fails with not-found.
func (r *PendingRepo) Put(ctx context.Context, p *domain.PendingVerification) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal pending verification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ConsumeByToken atomically looks up and deletes the pending entry bearing the
// token. The delete is conditional on the row still holding that exact token,
// so of two near-simultaneous callbacks with the same token exactly one
// observes success; the loser (and any lookup of a superseded token) gets
// domain.ErrNotFound.
func (r *PendingRepo) ConsumeByToken(ctx context.Context, token string) (*domain.PendingVerification, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("token-index"),
		KeyConditionExpression: aws.String("#tok = :tok"),
		ExpressionAttributeNames: map[string]string{
			"#tok": "token",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tok": &types.AttributeValueMemberS{Value: token},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("pending verification not found: %w", domain.ErrNotFound)
	}
	var p domain.PendingVerification
	if err := attributevalue.UnmarshalMap(out.Items[0], &p); err != nil {
		return nil, err
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("requester_id", p.RequesterID),
		ConditionExpression: aws.String("#tok = :tok"),
		ExpressionAttributeNames: map[string]string{
			"#tok": "token",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tok": &types.AttributeValueMemberS{Value: token},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			// Lost the race, or the entry was superseded between query and delete.
			return nil, fmt.Errorf("pending verification already consumed: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}
