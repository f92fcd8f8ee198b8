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

// InterviewRepo provides typed DynamoDB operations for interview practice
// requests. PK: request_id. GSI: email-index.
type InterviewRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewInterviewRepo(client *dynamodb.Client, tableName string) *InterviewRepo {
	return &InterviewRepo{client: client, tableName: tableName}
}

func (r *InterviewRepo) Put(ctx context.Context, req *domain.InterviewRequest) error {
	item, err := attributevalue.MarshalMap(req)
	if err != nil {
		return fmt.Errorf("marshal interview request: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *InterviewRepo) Get(ctx context.Context, requestID string) (*domain.InterviewRequest, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("request_id", requestID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("interview request not found: %w", domain.ErrNotFound)
	}
	var req domain.InterviewRequest
	if err := attributevalue.UnmarshalMap(out.Item, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *InterviewRepo) Scan(ctx context.Context) ([]domain.InterviewRequest, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var reqs []domain.InterviewRequest
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *InterviewRepo) ListByEmail(ctx context.Context, email string) ([]domain.InterviewRequest, error) {
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
	var reqs []domain.InterviewRequest
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *InterviewRepo) Update(ctx context.Context, requestID string, updates map[string]interface{}) error {
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
			return fmt.Errorf("interview request not found: %w", domain.ErrNotFound)
		}
		return err
	}
	return nil
}

// Count returns the total number of interview practice requests.
func (r *InterviewRepo) Count(ctx context.Context) (int, error) {
	return scanCount(ctx, r.client, r.tableName, "", nil)
}

// CountByStatus counts requests in a given status.
func (r *InterviewRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		Select:                   types.SelectCount,
		FilterExpression:         aws.String("#s = :v"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: status},
		},
	})
	if err != nil {
		return 0, err
	}
	return int(out.Count), nil
}
