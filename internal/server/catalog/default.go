package catalog

import "github.com/openmuse/openmuse/internal/server/models"

// Provider names used as stable catalog keys.
const (
	ProviderSystem    = "system"
	ProviderJaaz      = "jaaz"
	ProviderReplicate = "replicate"
	ProviderVolces    = "volces"
	ProviderOpenAI    = "openai"
)

// WritePlanToolID is the system planning tool. It has no external dependency
// and must stay registered regardless of credentials.
const WritePlanToolID = "write_plan"

// defaultToolIDs lists every generation tool this build knows about, grouped
// by the provider whose api_key activates it.
var defaultToolIDs = map[string][]string{
	ProviderJaaz: {
		"generate_image_by_gpt_image_1_jaaz",
		"generate_image_by_imagen_4_jaaz",
		"generate_image_by_ideogram3_bal_jaaz",
		"generate_image_by_flux_kontext_pro_jaaz",
		"generate_image_by_flux_kontext_max_jaaz",
		"generate_image_by_recraft_v3_jaaz",
		"generate_image_by_midjourney_jaaz",
		"generate_image_by_doubao_seedream_3_jaaz",
		"generate_video_by_seedance_v1_jaaz",
		"generate_video_by_kling_v2_jaaz",
		"generate_video_by_hailuo_02_jaaz",
		"generate_video_by_veo3_fast_jaaz",
	},
	ProviderReplicate: {
		"generate_image_by_imagen_4_replicate",
		"generate_image_by_flux_kontext_pro_replicate",
		"generate_image_by_flux_kontext_max_replicate",
		"generate_image_by_recraft_v3_replicate",
	},
	ProviderVolces: {
		"generate_image_by_doubao_seedream_3_volces",
		"edit_image_by_doubao_seededit_3_volces",
		"generate_video_by_seedance_v1_pro_volces",
		"generate_video_by_seedance_v1_lite_t2v",
		"generate_video_by_seedance_v1_lite_i2v",
	},
}

// Default builds the catalog of generation tools known to this build.
// Handlers are looked up by tool id in the supplied map; tools without a
// registered adapter get a placeholder that fails on invocation but still
// participate in credential-based activation.
func Default(handlers map[string]Handler) *Catalog {
	var tools []Tool
	for provider, ids := range defaultToolIDs {
		for _, id := range ids {
			h, ok := handlers[id]
			if !ok {
				h = unbound(id)
			}
			tools = append(tools, Tool{ID: id, Provider: provider, Handler: h})
		}
	}
	return New(tools)
}

// DefaultProviderConfig is the immutable baseline every tenant's stored
// config is merged onto. Keys ship empty; endpoints are the providers'
// public APIs.
func DefaultProviderConfig() models.ProviderConfig {
	return models.ProviderConfig{
		ProviderJaaz: {
			models.APIKeyField: "",
			"url":              "https://jaaz.app/api/v1/",
		},
		ProviderReplicate: {
			models.APIKeyField: "",
			"url":              "https://api.replicate.com/v1/",
		},
		ProviderVolces: {
			models.APIKeyField: "",
			"url":              "https://ark.cn-beijing.volces.com/api/v3/",
		},
		ProviderOpenAI: {
			models.APIKeyField: "",
			"url":              "https://api.openai.com/v1/",
		},
	}
}
