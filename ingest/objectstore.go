/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ingest

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const objectScheme = "s3://"

// ObjectStoreConfig describes an S3 compatible endpoint.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Secure    bool
}

// objectOpener fetches one object. Replaced in tests.
type objectOpener func(ctx context.Context, bucket, key string) (io.ReadCloser, error)

// parseObjectURL splits s3://bucket/key.
func parseObjectURL(source string) (string, string, error) {
	rest := strings.TrimPrefix(source, objectScheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("object URL must look like s3://bucket/key: %q", source)
	}
	return bucket, key, nil
}

func openObject(ctx context.Context, source string, options *readOptions) (io.ReadCloser, error) {
	bucket, key, err := parseObjectURL(source)
	if err != nil {
		return nil, err
	}
	opener := options.opener
	if opener == nil {
		if options.objectStore == nil || options.objectStore.Endpoint == "" {
			return nil, fmt.Errorf("no object store endpoint configured for %s", source)
		}
		client, err := minio.New(options.objectStore.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(options.objectStore.AccessKey, options.objectStore.SecretKey, ""),
			Secure: options.objectStore.Secure,
			Region: options.objectStore.Region,
		})
		if err != nil {
			return nil, err
		}
		opener = minioOpener(client)
	}
	return opener(ctx, bucket, key)
}

func minioOpener(client *minio.Client) objectOpener {
	return func(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
		obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
		if err != nil {
			return nil, err
		}
		// GetObject is lazy; Stat surfaces a missing key before reading
		if _, err := obj.Stat(); err != nil {
			obj.Close()
			errResp := minio.ToErrorResponse(err)
			if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
				return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, bucket, key)
			}
			return nil, err
		}
		return obj, nil
	}
}
