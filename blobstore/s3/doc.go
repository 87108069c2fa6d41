// Package s3 stores annotation archives in Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "annotations",
//	    s3.WithPrefix("campaign-7/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	err = store.Put(ctx, "job-42/annotation.zip", data)
//
// Uploads go through the SDK upload manager, which switches to multipart
// uploads for large archives. A resource.Controller can throttle upload
// bandwidth.
package s3
