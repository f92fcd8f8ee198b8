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

// OTPRepo stores one-time passcodes.
// PK: email, SK: otp_id. The table has a TTL on expires_at, so expired
// records that are never touched again get garbage-collected by DynamoDB.
// TTL deletion can lag; callers must not treat presence as validity.
type OTPRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOTPRepo(client *dynamodb.Client, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName}
}

// Put inserts a fresh record after removing any unconsumed records for the
// same email, preserving the one-unconsumed-record-per-email invariant.
func (r *OTPRepo) Put(ctx context.Context, rec *domain.OTPRecord) error {
	if err := r.DeleteForEmail(ctx, rec.Email, true); err != nil {
		return fmt.Errorf("clear stale otps: %w", err)
	}
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal otp: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// FindActive returns the unconsumed record matching email and code.
// Expired records may still be returned; expiry is the caller's check.
func (r *OTPRepo) FindActive(ctx context.Context, email, code string) (*domain.OTPRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("email = :e"),
		FilterExpression:       aws.String("code = :c AND used = :f"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e": &types.AttributeValueMemberS{Value: email},
			":c": &types.AttributeValueMemberS{Value: code},
			":f": &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	var rec domain.OTPRecord
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindVerified returns the consumed (verified=true, used=true) record for an
// email, the proof that OTP verification preceded registration.
func (r *OTPRepo) FindVerified(ctx context.Context, email string) (*domain.OTPRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("email = :e"),
		FilterExpression:       aws.String("verified = :t AND used = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e": &types.AttributeValueMemberS{Value: email},
			":t": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("no verified otp: %w", domain.ErrNotFound)
	}
	var rec domain.OTPRecord
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// MarkConsumed flips a record to used=true, verified=true as a single
// conditional update. The `used = false` condition makes consumption atomic:
// of two concurrent verifications only one can succeed, the other gets
// ErrNotFound.
func (r *OTPRepo) MarkConsumed(ctx context.Context, email, otpID string, at time.Time) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey("email", email, "otp_id", otpID),
		UpdateExpression:    aws.String("SET used = :t, verified = :t, verified_at = :at"),
		ConditionExpression: aws.String("attribute_exists(otp_id) AND used = :f"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":  &types.AttributeValueMemberBOOL{Value: true},
			":f":  &types.AttributeValueMemberBOOL{Value: false},
			":at": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", at.Unix())},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("otp already consumed or deleted: %w", domain.ErrNotFound)
		}
		return err
	}
	return nil
}

// Delete removes a single record.
func (r *OTPRepo) Delete(ctx context.Context, email, otpID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("email", email, "otp_id", otpID),
	})
	return err
}

// DeleteForEmail removes all records for an email. With onlyUnused set,
// consumed records survive (a pending registration keeps its proof).
func (r *OTPRepo) DeleteForEmail(ctx context.Context, email string, onlyUnused bool) error {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("email = :e"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e": &types.AttributeValueMemberS{Value: email},
		},
	}
	out, err := r.client.Query(ctx, input)
	if err != nil {
		return err
	}
	var recs []domain.OTPRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
		return err
	}
	for _, rec := range recs {
		if onlyUnused && rec.Used {
			continue
		}
		if err := r.Delete(ctx, email, rec.OTPID); err != nil {
			return err
		}
	}
	return nil
}
