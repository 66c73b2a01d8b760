package extractor

import "testing"

func TestNewDockerManagerDefaults(t *testing.T) {
	mgr, err := NewDockerManager(DockerConfig{})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	defer mgr.Close()

	if mgr.containerName != DefaultContainerName {
		t.Errorf("got %s", mgr.containerName)
	}
	if mgr.imageName != DefaultImage {
		t.Errorf("got %s", mgr.imageName)
	}
	if mgr.URL() != "http://localhost:5000" {
		t.Errorf("got %s", mgr.URL())
	}
	if mgr.labels[Label] != "true" {
		t.Error("expected the extractor label")
	}
}

func TestNewDockerManagerOverrides(t *testing.T) {
	mgr, err := NewDockerManager(DockerConfig{
		ContainerName: "custom-extractor",
		HostPort:      "5050",
		APIKey:        "sk-test",
		Labels:        map[string]string{"test": "yes"},
	})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	defer mgr.Close()

	if mgr.URL() != "http://localhost:5050" {
		t.Errorf("got %s", mgr.URL())
	}
	if mgr.labels["test"] != "yes" {
		t.Error("expected custom label to be merged")
	}
	if mgr.apiKey != "sk-test" {
		t.Error("expected api key to be stored")
	}
}
