package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/nano-banana/admin-api/internal/domain"
)

// DeviceRepo provides typed DynamoDB operations for the devices table.
// Devices are keyed by the client-supplied fingerprint and carry a version
// attribute used as an optimistic lock by AtomicUpsert.
type DeviceRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDeviceRepo(client *dynamodb.Client, tableName string) *DeviceRepo {
	return &DeviceRepo{client: client, tableName: tableName}
}

func (r *DeviceRepo) Get(ctx context.Context, deviceID string) (*domain.Device, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("device_id", deviceID),
	})
	if err != nil {
		return nil, classify(err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("device %s: %w", deviceID, domain.ErrNotFound)
	}
	var d domain.Device
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// AtomicUpsert performs a conditional read-modify-write on one device
// document. fn receives the current document (nil when the device is unseen)
// and returns the full replacement. The write only succeeds if the document
// has not changed since the read: creation requires the key to still be
// absent, replacement requires the version read to still be current. A lost
// race surfaces as ErrConflict so the caller can re-read and retry; the
// document is never left half-written.
func (r *DeviceRepo) AtomicUpsert(ctx context.Context, deviceID string, fn func(current *domain.Device) (*domain.Device, error)) (*domain.Device, error) {
	current, err := r.Get(ctx, deviceID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	next.DeviceID = deviceID

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
	}
	if current == nil {
		next.Version = 1
		input.ConditionExpression = aws.String("attribute_not_exists(device_id)")
	} else {
		next.Version = current.Version + 1
		input.ConditionExpression = aws.String("version = :expected")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", current.Version)},
		}
	}

	item, err := attributevalue.MarshalMap(next)
	if err != nil {
		return nil, fmt.Errorf("marshal device: %w", err)
	}
	input.Item = item

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return nil, classify(err)
	}
	return next, nil
}

// ScanPage returns a page of devices for the admin view. cursor is the
// device_id to resume from (empty for the first page).
func (r *DeviceRepo) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Device, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(limit),
	}
	if cursor != "" {
		input.ExclusiveStartKey = strKey("device_id", cursor)
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", classify(err)
	}
	var devices []domain.Device
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &devices); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey["device_id"].(*types.AttributeValueMemberS); ok {
		nextCursor = v.Value
	}
	return devices, nextCursor, nil
}

// HardDelete removes a device document. Only the administrative purge path
// uses this; normal operation never deletes devices.
func (r *DeviceRepo) HardDelete(ctx context.Context, deviceID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("device_id", deviceID),
	})
	return classify(err)
}
