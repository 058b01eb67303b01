package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/authcheck-api/internal/domain"
)

// LinkRepo provides typed DynamoDB operations for the verified-links table and
// its companion provider-claims table. The claims table is what makes the
// requester→provider mapping bijective: every commit transactionally writes a
// claim row keyed by provider_id, conditioned on the provider identity being
// unclaimed or already claimed by the same requester.
type LinkRepo struct {
	client      *dynamodb.Client
	linksTable  string
	claimsTable string
}

func NewLinkRepo(client *dynamodb.Client, linksTable, claimsTable string) *LinkRepo {
	return &LinkRepo{client: client, linksTable: linksTable, claimsTable: claimsTable}
}

// Get returns the verified link for a requester, or domain.ErrNotFound.
func (r *LinkRepo) Get(ctx context.Context, requesterID string) (*domain.VerifiedLink, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.linksTable),
		Key:       strKey("requester_id", requesterID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("verified link not found: %w", domain.ErrNotFound)
	}
	var l domain.VerifiedLink
	if err := attributevalue.UnmarshalMap(out.Item, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// IsVerified reports whether a requester holds a verified link.
func (r *LinkRepo) IsVerified(ctx context.Context, requesterID string) (bool, error) {
	_, err := r.Get(ctx, requesterID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Upsert commits a verified link. Re-verification by the same requester
// overwrites their own row (and releases a previously claimed provider
// identity when the account changed). A provider identity already claimed by a
// different requester fails the claim condition and surfaces as
// domain.ErrConflict, leaving both tables untouched.
func (r *LinkRepo) Upsert(ctx context.Context, link *domain.VerifiedLink) error {
	item, err := attributevalue.MarshalMap(link)
	if err != nil {
		return fmt.Errorf("marshal verified link: %w", err)
	}

	writes := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName: aws.String(r.claimsTable),
				Item: map[string]types.AttributeValue{
					"provider_id":  &types.AttributeValueMemberN{Value: strconv.FormatInt(link.ProviderID, 10)},
					"requester_id": &types.AttributeValueMemberS{Value: link.RequesterID},
				},
				ConditionExpression: aws.String("attribute_not_exists(provider_id) OR requester_id = :rid"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":rid": &types.AttributeValueMemberS{Value: link.RequesterID},
				},
			},
		},
		{
			Put: &types.Put{
				TableName: aws.String(r.linksTable),
				Item:      item,
			},
		},
	}

	// If this requester previously linked a different provider account,
	// release the stale claim in the same transaction.
	prev, err := r.Get(ctx, link.RequesterID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if prev != nil && prev.ProviderID != link.ProviderID {
		writes = append(writes, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(r.claimsTable),
				Key:       numKey("provider_id", prev.ProviderID),
			},
		})
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: writes,
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			for _, reason := range tce.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					return fmt.Errorf("provider identity already linked to another requester: %w", domain.ErrConflict)
				}
			}
		}
		return err
	}
	return nil
}
