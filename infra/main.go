package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/layout-backend/infra/cloudrun"
	"github.com/GregMSThompson/layout-backend/infra/docker"
	"github.com/GregMSThompson/layout-backend/infra/firestore"
	"github.com/GregMSThompson/layout-backend/infra/identity"
	"github.com/GregMSThompson/layout-backend/infra/provider"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// identity platform backs the firebase id tokens the api verifies
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		db, err := firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		svc, err := cloudrun.SetupCloudRun(ctx, prov, ident, db, repo)
		if err != nil {
			return err
		}

		ctx.Export("apiUrl", svc.Statuses.Index(pulumi.Int(0)).Url())
		return nil
	})
}
