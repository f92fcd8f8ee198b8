package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/wemakecorder/api/internal/domain"
)

// CounselingRepo provides typed DynamoDB operations for counseling requests.
// PK: request_id (ULID, so created-order sorts lexically). GSI: email-index.
type CounselingRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCounselingRepo(client *dynamodb.Client, tableName string) *CounselingRepo {
	return &CounselingRepo{client: client, tableName: tableName}
}

func (r *CounselingRepo) Put(ctx context.Context, req *domain.CounselingRequest) error {
	item, err := attributevalue.MarshalMap(req)
	if err != nil {
		return fmt.Errorf("marshal counseling request: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CounselingRepo) Get(ctx context.Context, requestID string) (*domain.CounselingRequest, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("request_id", requestID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("counseling request not found: %w", domain.ErrNotFound)
	}
	var req domain.CounselingRequest
	if err := attributevalue.UnmarshalMap(out.Item, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *CounselingRepo) Scan(ctx context.Context) ([]domain.CounselingRequest, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var reqs []domain.CounselingRequest
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *CounselingRepo) ListByEmail(ctx context.Context, email string) ([]domain.CounselingRequest, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("email-index"),
		KeyConditionExpression: aws.String("email = :e"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, err
	}
	var reqs []domain.CounselingRequest
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *CounselingRepo) Update(ctx context.Context, requestID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("request_id", requestID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(request_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("counseling request not found: %w", domain.ErrNotFound)
		}
		return err
	}
	return nil
}

// Count returns the total number of counseling requests.
func (r *CounselingRepo) Count(ctx context.Context) (int, error) {
	return scanCount(ctx, r.client, r.tableName, "", nil)
}

// CountCreatedSince counts requests created at or after the given instant.
func (r *CounselingRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return scanCount(ctx, r.client, r.tableName, "created_at >= :s", map[string]types.AttributeValue{
		":s": &types.AttributeValueMemberS{Value: since.UTC().Format(time.RFC3339)},
	})
}
