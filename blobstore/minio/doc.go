// Package minio stores annotation archives on MinIO or any other
// S3-compatible server (Ceph, Garage, SeaweedFS).
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "annotations", "campaign-7/")
//	err = store.Put(ctx, "job-42/annotation.zip", data)
package minio
