package llm

import "mantra/backend/internal/llm/contract"

type Provider = contract.Provider

type ProviderConfig = contract.ProviderConfig
